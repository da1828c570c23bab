package nominatim

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestClientReverseRequest(t *testing.T) {
	respBody := `{"display_name":"12 Main Street, Riverside, Springfield, Clark County, Ohio, 45501, United States","address":{"road":"Main Street","city":"Springfield"}}`

	var capturedURL string
	var capturedAgent string

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedAgent = req.Header.Get("User-Agent")
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	client := NewClient(
		WithBaseURL("http://geo.test"),
		WithHTTPClient(&http.Client{Transport: rt}),
	)

	place, err := client.Reverse(context.Background(), 39.9242, -83.8088)
	if err != nil {
		t.Fatalf("reverse: %v", err)
	}

	if !strings.HasPrefix(capturedURL, "http://geo.test/reverse?") {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	for _, want := range []string{"lat=39.9242", "lon=-83.8088", "zoom=18", "addressdetails=1", "format=json"} {
		if !strings.Contains(capturedURL, want) {
			t.Fatalf("URL %q missing %q", capturedURL, want)
		}
	}
	if capturedAgent != defaultUserAgent {
		t.Fatalf("unexpected user agent %q", capturedAgent)
	}
	if place.ShortAddress != "12 Main Street, Riverside, Springfield, Clark County" {
		t.Fatalf("unexpected short address %q", place.ShortAddress)
	}
	if place.Address["city"] != "Springfield" {
		t.Fatalf("unexpected address details %+v", place.Address)
	}
}

func TestClientReverseShortDisplayName(t *testing.T) {
	respBody := `{"display_name":"Springfield, Ohio"}`

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	client := NewClient(WithBaseURL("http://geo.test"), WithHTTPClient(&http.Client{Transport: rt}))
	place, err := client.Reverse(context.Background(), 39.9, -83.8)
	if err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if place.ShortAddress != "Springfield, Ohio" {
		t.Fatalf("unexpected short address %q", place.ShortAddress)
	}
}

func TestClientReverseAPIError(t *testing.T) {
	respBody := `{"error":"Unable to geocode"}`

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	client := NewClient(WithBaseURL("http://geo.test"), WithHTTPClient(&http.Client{Transport: rt}))
	if _, err := client.Reverse(context.Background(), 0, 0); err == nil {
		t.Fatal("expected error for unresolvable coordinates")
	}
}

func TestClientReverseHTTPError(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusTooManyRequests,
			Body:       io.NopCloser(strings.NewReader("slow down")),
			Header:     http.Header{},
		}, nil
	})

	client := NewClient(WithBaseURL("http://geo.test"), WithHTTPClient(&http.Client{Transport: rt}))
	if _, err := client.Reverse(context.Background(), 39.9, -83.8); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
