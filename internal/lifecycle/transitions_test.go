package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vedant-dewangan/RegexFlow/internal/common"
	"github.com/vedant-dewangan/RegexFlow/internal/model"
)

func TestNext(t *testing.T) {
	tests := []struct {
		from    model.TemplateStatus
		ev      Event
		want    model.TemplateStatus
		wantErr bool
	}{
		{from: model.StatusDraft, ev: EventSubmit, want: model.StatusPending},
		{from: model.StatusPending, ev: EventApprove, want: model.StatusVerified},
		{from: model.StatusPending, ev: EventReject, want: model.StatusDraft},
		{from: model.StatusVerified, ev: EventDeprecate, want: model.StatusDeprecated},

		{from: model.StatusDraft, ev: EventApprove, wantErr: true},
		{from: model.StatusDraft, ev: EventReject, wantErr: true},
		{from: model.StatusVerified, ev: EventApprove, wantErr: true},
		{from: model.StatusVerified, ev: EventSubmit, wantErr: true},
		{from: model.StatusPending, ev: EventSubmit, wantErr: true},
		{from: model.StatusPending, ev: EventDeprecate, wantErr: true},
		{from: model.StatusDraft, ev: "publish", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.ev), func(t *testing.T) {
			got, err := Next(tt.from, tt.ev)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidTransition)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNext_DeprecatedIsTerminal(t *testing.T) {
	for _, ev := range []Event{EventSubmit, EventApprove, EventReject, EventDeprecate} {
		_, err := Next(model.StatusDeprecated, ev)
		assert.ErrorIs(t, err, common.ErrInvalidTransition, "event %s", ev)
	}
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		role    model.Role
		ev      Event
		allowed bool
	}{
		{model.RoleMaker, EventSubmit, true},
		{model.RoleChecker, EventSubmit, false},
		{model.RoleChecker, EventApprove, true},
		{model.RoleChecker, EventReject, true},
		{model.RoleMaker, EventApprove, false},
		{model.RoleAdmin, EventApprove, false},
		{model.RoleUser, EventReject, false},
		{model.RoleAdmin, EventDeprecate, true},
		{model.RoleChecker, EventDeprecate, true},
		{model.RoleMaker, EventDeprecate, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+string(tt.ev), func(t *testing.T) {
			err := authorize(model.Actor{UserID: 1, Role: tt.role}, tt.ev)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, common.ErrForbidden)
			}
		})
	}
}
