package keymap

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	t.Run("Digits map to cells in reading order", func(t *testing.T) {
		for key := 1; key <= 9; key++ {
			command := Translate(strconv.Itoa(key))

			assert.Equal(t, Command{Kind: Move, Cell: key - 1}, command, "key %d", key)
		}
	})

	t.Run("Reset and dismiss", func(t *testing.T) {
		assert.Equal(t, Command{Kind: Reset}, Translate("r"))
		assert.Equal(t, Command{Kind: Reset}, Translate("R"))
		assert.Equal(t, Command{Kind: Dismiss}, Translate("Escape"))
	})

	t.Run("Everything else is ignored", func(t *testing.T) {
		for _, key := range []string{"", "0", "10", "a", "Enter", " ", "escape", "11"} {
			assert.Equal(t, Ignore, Translate(key).Kind, "key %q", key)
		}
	})

	t.Run("Kind names", func(t *testing.T) {
		assert.Equal(t, "move", Move.String())
		assert.Equal(t, "ignore", Ignore.String())
	})
}
