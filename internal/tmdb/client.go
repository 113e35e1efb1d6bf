// Package tmdb is a thin pass-through client for The Movie Database.
// The booking core only uses it for best-effort enrichment; callers
// must tolerate failures by omitting the movie payload.
package tmdb

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/klixid/movie-booking/internal/service"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Movie is the subset of the catalog payload the service exposes.
type Movie struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	Runtime     int     `json:"runtime"`
	VoteAverage float64 `json:"vote_average"`
}

type Person struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	ProfilePath string `json:"profile_path"`
}

// Show is the TV counterpart of Movie. TMDB names the title field
// "name" and the release field "first_air_date" for series.
type Show struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
}

type Video struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

type Keyword struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type movieList struct {
	Results []Movie `json:"results"`
}

type personList struct {
	Results []Person `json:"results"`
}

type showList struct {
	Results []Show `json:"results"`
}

type videoList struct {
	Results []Video `json:"results"`
}

type keywordList struct {
	Results []Keyword `json:"results"`
}

func (c *Client) get(path string, dest any) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", service.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return service.ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: tmdb responded %s", service.ErrUnavailable, resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(dest)
}

func (c *Client) GetMovie(movieID string) (*Movie, error) {
	var movie Movie
	if err := c.get(fmt.Sprintf("/movie/%s?language=en-US", url.PathEscape(movieID)), &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

func (c *Client) TrendingMovies() ([]Movie, error) {
	var list movieList
	if err := c.get("/trending/movie/day?language=en-US", &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

func (c *Client) NowPlayingMovies() ([]Movie, error) {
	var list movieList
	if err := c.get("/movie/now_playing?language=en-US", &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

func (c *Client) SearchMovies(query string) ([]Movie, error) {
	var list movieList
	path := "/search/movie?include_adult=false&language=en-US&page=1&query=" + url.QueryEscape(query)
	if err := c.get(path, &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

func (c *Client) SearchPerson(query string) ([]Person, error) {
	var list personList
	path := "/search/person?include_adult=false&language=en-US&page=1&query=" + url.QueryEscape(query)
	if err := c.get(path, &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

func (c *Client) SearchShows(query string) ([]Show, error) {
	var list showList
	path := "/search/tv?include_adult=false&language=en-US&page=1&query=" + url.QueryEscape(query)
	if err := c.get(path, &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

func (c *Client) MovieVideos(movieID string) ([]Video, error) {
	var list videoList
	if err := c.get(fmt.Sprintf("/movie/%s/videos?language=en-US", url.PathEscape(movieID)), &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

func (c *Client) SimilarMovies(movieID string) ([]Movie, error) {
	var list movieList
	if err := c.get(fmt.Sprintf("/movie/%s/similar?language=en-US&page=1", url.PathEscape(movieID)), &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

func (c *Client) MovieRecommendations(movieID string) ([]Movie, error) {
	var list movieList
	if err := c.get(fmt.Sprintf("/movie/%s/recommendations?language=en-US&page=1", url.PathEscape(movieID)), &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

// MoviesByCategory proxies the TMDB list endpoints (popular, top_rated,
// upcoming). An unknown category comes back from TMDB as a 404.
func (c *Client) MoviesByCategory(category string) ([]Movie, error) {
	var list movieList
	if err := c.get(fmt.Sprintf("/movie/%s?language=en-US&page=1", url.PathEscape(category)), &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

func (c *Client) GetShow(showID string) (*Show, error) {
	var show Show
	if err := c.get(fmt.Sprintf("/tv/%s?language=en-US", url.PathEscape(showID)), &show); err != nil {
		return nil, err
	}
	return &show, nil
}

func (c *Client) TrendingShows() ([]Show, error) {
	var list showList
	if err := c.get("/trending/tv/day?language=en-US", &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

// ShowsByCategory proxies the TMDB list endpoints (popular, top_rated,
// on_the_air, airing_today).
func (c *Client) ShowsByCategory(category string) ([]Show, error) {
	var list showList
	if err := c.get(fmt.Sprintf("/tv/%s?language=en-US&page=1", url.PathEscape(category)), &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

func (c *Client) ShowVideos(showID string) ([]Video, error) {
	var list videoList
	if err := c.get(fmt.Sprintf("/tv/%s/videos?language=en-US", url.PathEscape(showID)), &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

func (c *Client) SimilarShows(showID string) ([]Show, error) {
	var list showList
	if err := c.get(fmt.Sprintf("/tv/%s/similar?language=en-US&page=1", url.PathEscape(showID)), &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

func (c *Client) ShowRecommendations(showID string) ([]Show, error) {
	var list showList
	if err := c.get(fmt.Sprintf("/tv/%s/recommendations?language=en-US&page=1", url.PathEscape(showID)), &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

func (c *Client) ShowKeywords(showID string) ([]Keyword, error) {
	var list keywordList
	if err := c.get(fmt.Sprintf("/tv/%s/keywords", url.PathEscape(showID)), &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}
