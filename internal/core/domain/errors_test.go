package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Distinct(t *testing.T) {
	all := []error{
		ErrMalformedTree,
		ErrArtifactNotFound,
		ErrInvalidK,
		ErrEmptyCategory,
		ErrNoClusters,
		ErrParserContract,
		ErrEmbedderContract,
		ErrInvalidMetric,
	}
	for i, a := range all {
		assert.NotNil(t, a)
		assert.NotEmpty(t, a.Error())
		for j, b := range all {
			if i != j {
				assert.False(t, errors.Is(a, b), "%v should not match %v", a, b)
			}
		}
	}
}

func TestErrors_SurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("doc d0: %w", ErrMalformedTree)
	assert.ErrorIs(t, wrapped, ErrMalformedTree)
	assert.NotErrorIs(t, wrapped, ErrParserContract)

	twice := fmt.Errorf("stage cluster: %w", fmt.Errorf("k=9: %w", ErrInvalidK))
	assert.ErrorIs(t, twice, ErrInvalidK)
}
