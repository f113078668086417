package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFundingRequest_CanTransition(t *testing.T) {
	pending := &FundingRequest{Status: StatusPending}
	assert.True(t, pending.CanTransition(StatusApproved))
	assert.True(t, pending.CanTransition(StatusRejected))
	assert.False(t, pending.CanTransition(StatusPending))
	assert.False(t, pending.CanTransition("archived"))
	assert.False(t, pending.IsTerminal())

	for _, status := range []string{StatusApproved, StatusRejected} {
		decided := &FundingRequest{Status: status}
		assert.True(t, decided.IsTerminal())
		assert.False(t, decided.CanTransition(StatusApproved), status)
		assert.False(t, decided.CanTransition(StatusRejected), status)
	}
}

func TestNewReferenceNo(t *testing.T) {
	ref, err := NewReferenceNo(KindEmergency)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "EM-"))
	assert.Len(t, ref, len("EM-")+referenceSize)

	other, err := NewReferenceNo(KindEmergency)
	require.NoError(t, err)
	assert.NotEqual(t, ref, other)

	fund, err := NewReferenceNo(KindFund)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(fund, "FR-"))
}

func TestCollectionPaths(t *testing.T) {
	for _, kind := range Kinds {
		path := CollectionPath(kind)
		require.NotEmpty(t, path)
		back, ok := KindForCollection(path)
		assert.True(t, ok)
		assert.Equal(t, kind, back)
	}

	_, ok := KindForCollection("orders")
	assert.False(t, ok)
	assert.False(t, IsValidKind("fund"))
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, StatusRejected, NormalizeStatus("Denied"))
	assert.Equal(t, StatusRejected, NormalizeStatus(" declined "))
	assert.Equal(t, StatusApproved, NormalizeStatus("APPROVED"))
	assert.Equal(t, "archived", NormalizeStatus("Archived"))
	assert.True(t, IsValidStatus(NormalizeStatus("denied")))
	assert.False(t, IsValidStatus("archived"))
}
