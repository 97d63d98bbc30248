package names

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"José Berríos", "Jose Berrios"},
		{"Jesús Luzardo", "Jesus Luzardo"},
		{"Ranger Suárez", "Ranger Suarez"},
		{"Martín Pérez", "Martin Perez"},
		{"Gerrit Cole", "Gerrit Cole"},
		{"Bjørn Ødegaard", "Bjorn Odegaard"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Fold(tt.in), tt.in)
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("José Berríos", "jose  berrios"))
	assert.True(t, Equal(" Max Fried ", "Max Fried"))
	assert.False(t, Equal("Max Fried", "Max Scherzer"))
}
