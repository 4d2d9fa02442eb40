package update

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want Version
	}{
		{name: "plain", tag: "1.2.3.4", want: Version{1, 2, 3, 4}},
		{name: "leading v stripped", tag: "v1.2", want: Version{1, 2, 0, 0}},
		{name: "uppercase V stripped", tag: "V2.0.1", want: Version{2, 0, 1, 0}},
		{name: "single component", tag: "3", want: Version{3, 0, 0, 0}},
		{name: "too many components", tag: "1.2.3.4.5", want: Version{}},
		{name: "non numeric", tag: "1.2.beta", want: Version{}},
		{name: "empty", tag: "", want: Version{}},
		{name: "whitespace", tag: "  v1.0  ", want: Version{1, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.tag))
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{name: "newer minor wins", a: "v1.2", b: "1.1.9.9", want: 1},
		{name: "padding makes equal", a: "v2.0.0.0", b: "2.0", want: 0},
		{name: "older patch loses", a: "1.2.0.1", b: "1.2.1", want: -1},
		{name: "identical", a: "1.2.3.4", b: "v1.2.3.4", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.a).Compare(Normalize(tt.b)))
		})
	}
}

func TestIsZero(t *testing.T) {
	assert.True(t, Normalize("garbage").IsZero())
	assert.False(t, Normalize("0.0.0.1").IsZero())
}
