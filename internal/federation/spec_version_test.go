package federation

import (
	"errors"
	"testing"
)

func TestParseSpecVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url     string
		want    SpecVersion
		wantErr bool
	}{
		{url: "https://specs.apollo.dev/federation/v2.0", want: SpecVersion{Major: 2, Minor: 0}},
		{url: "https://specs.apollo.dev/federation/v2.3", want: SpecVersion{Major: 2, Minor: 3}},
		{url: "https://specs.apollo.dev/federation/v2.9", want: SpecVersion{Major: 2, Minor: 9}},
		{url: "https://specs.apollo.dev/federation/v2.12", want: SpecVersion{Major: 2, Minor: 12}},
		{url: "https://specs.apollo.dev/federation/v10.10", want: SpecVersion{Major: 10, Minor: 10}},
		{url: "https://specs.apollo.dev/federation/v2", wantErr: true},
		{url: "https://specs.apollo.dev/federation/v2.x", wantErr: true},
		{url: "https://specs.apollo.dev/federation/latest", wantErr: true},
		{url: "https://specs.apollo.dev/federation/v2.3-beta", wantErr: true},
		{url: "", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()

			got, err := ParseSpecVersion(tt.url)
			if tt.wantErr {
				var versionErr *UnsupportedFederationVersionError
				if !errors.As(err, &versionErr) {
					t.Fatalf("unexpected error: %v", err)
				}
				if versionErr.URL != tt.url {
					t.Errorf("unexpected url: %s", versionErr.URL)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpecVersion_Compare(t *testing.T) {
	t.Parallel()

	v2_3 := SpecVersion{Major: 2, Minor: 3}
	v2_12 := SpecVersion{Major: 2, Minor: 12}

	if v := v2_3.Compare(v2_12); v != -1 {
		t.Errorf("v2.3 vs v2.12: %d", v)
	}
	if v := v2_12.Compare(v2_3); v != 1 {
		t.Errorf("v2.12 vs v2.3: %d", v)
	}
	if v := v2_12.Compare(v2_12); v != 0 {
		t.Errorf("v2.12 vs v2.12: %d", v)
	}
	if !v2_12.AtLeast(SpecVersion{Major: 2, Minor: 5}) {
		t.Error("v2.12 must be at least v2.5")
	}
	if v2_3.AtLeast(SpecVersion{Major: 2, Minor: 5}) {
		t.Error("v2.3 must not be at least v2.5")
	}
	if !v2_3.AtLeast(v2_3) {
		t.Error("v2.3 must be at least itself")
	}
	if s := v2_12.String(); s != "v2.12" {
		t.Errorf("unexpected string: %s", s)
	}
}
