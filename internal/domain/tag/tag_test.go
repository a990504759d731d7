package tag

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorForNameIsStable(t *testing.T) {
	assert.Equal(t, ColorForName("miniatures"), ColorForName("miniatures"))
	assert.NotEqual(t, ColorForName("Red"), ColorForName("red"))
}

func TestColorForNameFormat(t *testing.T) {
	hexColor := regexp.MustCompile(`^#[0-9A-F]{6}$`)

	for _, name := range []string{"", "a", "terrain", "functional-prints", "日本語"} {
		assert.Regexp(t, hexColor, ColorForName(name))
	}
}
