// Package payment is a stand-in for the external payment collaborator.
// It settles and refunds with a configurable success rate so the
// booking workflows can be exercised end to end without a real gateway.
package payment

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

type Result struct {
	Ref       string
	Succeeded bool
	Error     string
}

type MockClient struct {
	successRate float64
}

func NewMockClient(successRate float64) *MockClient {
	if successRate <= 0 || successRate > 1 {
		successRate = 0.95
	}
	return &MockClient{successRate: successRate}
}

func (c *MockClient) Charge(bookingID uint, amount float64, method string) (*Result, error) {
	// simulated gateway latency
	time.Sleep(time.Duration(rand.Intn(400)+100) * time.Millisecond)

	ref := fmt.Sprintf("pay_%s", uuid.NewString())
	if rand.Float64() >= c.successRate {
		return &Result{
			Ref:       ref,
			Succeeded: false,
			Error:     "mock payment failure - insufficient funds",
		}, nil
	}
	return &Result{
		Ref:       ref,
		Succeeded: true,
	}, nil
}

func (c *MockClient) Refund(bookingID uint) (*Result, error) {
	time.Sleep(time.Duration(rand.Intn(300)+50) * time.Millisecond)

	// refunds always succeed against the mock gateway
	return &Result{
		Ref:       fmt.Sprintf("re_%s", uuid.NewString()),
		Succeeded: true,
	}, nil
}
