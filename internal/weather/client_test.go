package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Paris" {
			t.Errorf("q = %q, want Paris", got)
		}
		if got := r.URL.Query().Get("units"); got != "metric" {
			t.Errorf("units = %q, want metric", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"main":{"temp":21.3,"feels_like":20.1,"humidity":64},"weather":[{"description":"scattered clouds"}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key")
	got, err := c.Fetch(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	want := "The current weather in Paris is 21.3°C with scattered clouds. Feels like 20.1°C, humidity 64%."
	if got != want {
		t.Fatalf("summary = %q, want %q", got, want)
	}
}

func TestFetch_CityNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key")
	_, err := c.Fetch(context.Background(), "Atlantis")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("err = %v, want *NotFoundError", err)
	}
	if err.Error() != "Could not find weather data for 'Atlantis'." {
		t.Fatalf("error text = %q", err.Error())
	}
}

func TestFetch_UpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, "test-key")
	_, err := c.Fetch(context.Background(), "Paris")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if se.Code != http.StatusBadGateway {
		t.Fatalf("code = %d", se.Code)
	}
	if !strings.HasPrefix(err.Error(), "Error fetching weather data:") {
		t.Fatalf("error text = %q", err.Error())
	}
}

func TestFetch_MissingKey(t *testing.T) {
	c := New("http://unused", "")
	_, err := c.Fetch(context.Background(), "Paris")
	if !errors.Is(err, ErrMissingKey) {
		t.Fatalf("err = %v, want ErrMissingKey", err)
	}
}

func TestFetch_Unreachable(t *testing.T) {
	c := New("http://127.0.0.1:1", "test-key")
	_, err := c.Fetch(context.Background(), "Paris")
	var ue *UnavailableError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want *UnavailableError", err)
	}
}
