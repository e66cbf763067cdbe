package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestReverseGeocode(t *testing.T) {
	var gotQuery map[string]string
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Errorf("path = %q; want /reverse", r.URL.Path)
		}
		q := r.URL.Query()
		gotQuery = map[string]string{
			"format":          q.Get("format"),
			"lat":             q.Get("lat"),
			"lon":             q.Get("lon"),
			"accept-language": q.Get("accept-language"),
		}
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"address":{"town":"Font-Romeu","county":"Pyrénées-Orientales","country":"France"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "en", "test-agent")
	got, err := c.ReverseGeocode(context.Background(), 42.5, 2.0333333)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Font-Romeu, France" {
		t.Errorf("place = %q; want %q", got, "Font-Romeu, France")
	}
	want := map[string]string{"format": "jsonv2", "lat": "42.500000", "lon": "2.033333", "accept-language": "en"}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("query %s = %q; want %q", k, gotQuery[k], v)
		}
	}
	if gotUA != "test-agent" {
		t.Errorf("User-Agent = %q; want test-agent", gotUA)
	}
}

func TestReverseGeocode_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `oops`},
		{"api error", http.StatusOK, `{"error":"Unable to geocode"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			if _, err := NewClient(srv.URL, "", "").ReverseGeocode(context.Background(), 0, 0); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestPlaceName(t *testing.T) {
	tests := []struct {
		name string
		in   address
		want string
	}{
		{"city wins", address{City: "Lyon", Town: "X", County: "Rhône", Country: "France"}, "Lyon, France"},
		{"village", address{Village: "Chamonix", Country: "France"}, "Chamonix, France"},
		{"municipality", address{Municipality: "Val", Country: "Italia"}, "Val, Italia"},
		{"county fallback", address{County: "Savoie", Country: "France"}, "Savoie, France"},
		{"place only", address{City: "Monaco"}, "Monaco"},
		{"country only", address{Country: "France"}, "France"},
		{"nothing", address{}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := placeName(tc.in); got != tc.want {
				t.Errorf("placeName = %q; want %q", got, tc.want)
			}
		})
	}
}
