package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindForName(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"photo.png", KindImage},
		{"photo.JPG", KindImage},
		{"render.jpeg", KindImage},
		{"preview.webp", KindImage},
		{"part.stl", KindModel},
		{"part.STL", KindModel},
		{"scene.obj", KindModel},
		{"plate.3mf", KindModel},
		{"rig.fbx", KindModel},
		{"mesh.glb", KindModel},
		{"mesh.gltf", KindModel},
		{"readme.txt", KindOther},
		{"project.gcode", KindOther},
		{"noextension", KindOther},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, KindForName(tc.name), "file %q", tc.name)
	}
}
