package interaction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdentityManager(t *testing.T) {
	tests := []struct {
		name             string
		ctx              context.Context
		expectAdmin      bool
		expectAPIToken   bool
		expectRegistered bool
		expectSubject    string
	}{
		{
			name: "no credentials",
			ctx:  context.Background(),
		},
		{
			name:           "api token call",
			ctx:            apiTokenCtx(),
			expectAPIToken: true,
		},
		{
			name:             "registered user",
			ctx:              userCtx("u-100", "staff"),
			expectRegistered: true,
			expectSubject:    "u-100",
		},
		{
			name:          "admin user",
			ctx:           userCtx("u-1", "staff", "admin"),
			expectAdmin:   true,
			expectSubject: "u-1",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			mgr := NewIdentityManager(tc.ctx)
			require.Equal(t, tc.expectAdmin, mgr.IsAdmin())
			require.Equal(t, tc.expectAPIToken, mgr.IsAPITokenCall())
			require.Equal(t, tc.expectRegistered, mgr.IsRegisteredUser())
			require.Equal(t, tc.expectSubject, mgr.Subject())
		})
	}
}
