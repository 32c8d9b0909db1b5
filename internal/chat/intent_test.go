package chat

import "testing"

func TestDetect(t *testing.T) {
	d := NewDetector()

	cases := []struct {
		in        string
		triggered bool
		city      string
	}{
		{"What's the weather in Paris?", true, "Paris"},
		{"weather", false, ""},
		{"I love paris weather", false, ""},
		{"Paris weather today?", true, "Paris"},
		{"How is the WEATHER in New York", true, "New York"},
		{"Is it raining in London", false, ""}, // no keyword
		{"tell me a joke", false, ""},
	}

	for _, tc := range cases {
		triggered, city := d.Detect(tc.in)
		if triggered != tc.triggered {
			t.Fatalf("Detect(%q) triggered = %v, want %v", tc.in, triggered, tc.triggered)
		}
		if city != tc.city {
			t.Fatalf("Detect(%q) city = %q, want %q", tc.in, city, tc.city)
		}
	}
}
