package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jawabu/ussd/pkg/domain"
)

func TestScreenStateData(t *testing.T) {
	st := domain.NewScreenState("menu")

	assert.Nil(t, st.Get("missing"))
	assert.Equal(t, "", st.GetString("missing"))

	st.Set("name", "asha")
	st.Update(map[string]any{"count": 3})

	assert.Equal(t, "asha", st.GetString("name"))
	assert.Equal(t, 3, st.Get("count"))
}

func TestScreenStateDecode(t *testing.T) {
	// Values restored from the cache arrive as generic JSON types; Decode
	// must bring them back to screen-defined structs.
	st := domain.NewScreenState("confirm")
	st.Update(map[string]any{"product": 2, "qty": 4})

	raw, err := json.Marshal(st)
	require.NoError(t, err)
	var restored domain.ScreenState
	require.NoError(t, json.Unmarshal(raw, &restored))

	var out struct {
		Product int `mapstructure:"product"`
		Qty     int `mapstructure:"qty"`
	}
	require.NoError(t, restored.Decode(&out))
	assert.Equal(t, 2, out.Product)
	assert.Equal(t, 4, out.Qty)
}

func TestSetOnZeroValueState(t *testing.T) {
	var st domain.ScreenState
	st.Set("k", "v")
	assert.Equal(t, "v", st.GetString("k"))
}
