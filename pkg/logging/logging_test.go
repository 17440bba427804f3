package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommonLogger(t *testing.T) {
	l, err := CommonLogger(NewConfig(`tests`))
	require.NoError(t, err)
	require.NotNil(t, l)
}
