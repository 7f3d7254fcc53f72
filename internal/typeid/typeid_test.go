package typeid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDsCarryPrefix(t *testing.T) {
	asset := NewAssetID()
	assert.True(t, strings.HasPrefix(asset, PrefixAsset+"_"))
	require.NoError(t, Validate(asset, PrefixAsset))

	session := NewSessionID()
	assert.NotEqual(t, session, NewSessionID())
	require.NoError(t, Validate(session, PrefixSession))
}

func TestValidateRejectsWrongPrefix(t *testing.T) {
	err := Validate(NewAssetID(), PrefixSession)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected prefix")

	err = Validate("not-an-id", PrefixAsset)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid typeid")
}
