package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sufield/confdesk/internal/domain"
	"github.com/sufield/confdesk/internal/ports"
)

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("load conference: %w", ports.ErrNotFound), http.StatusNotFound},
		{ports.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("x: %w", domain.ErrInvalidTransition), http.StatusConflict},
		{domain.ErrInvalidSponsorDeal, http.StatusBadRequest},
		{domain.ErrInvalidSalesWindow, http.StatusBadRequest},
		{domain.ErrUnknownProposalAction, http.StatusBadRequest},
		{errBadRequest, http.StatusBadRequest},
		{ports.ErrStorageUnavailable, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
