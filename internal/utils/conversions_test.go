package utils_test

import (
	"testing"

	"github.com/jrsteele09/go-oura-client/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestToStringSlice(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, utils.ToStringSlice([]any{"a", 1, nil, "b"}))
	require.Empty(t, utils.ToStringSlice(nil))
}
