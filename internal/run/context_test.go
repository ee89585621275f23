package run

import (
	"os"
	"os/user"
	"testing"

	"github.com/rileyhilliard/hostprep/internal/config"
	"github.com/rileyhilliard/hostprep/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContext(t *testing.T) {
	t.Setenv("SUDO_USER", "alice")

	cfg := config.DefaultConfig()
	ctx := NewContext(cfg, true)

	assert.Equal(t, cfg, ctx.Config)
	assert.True(t, ctx.DryRun)
	assert.Equal(t, os.Geteuid() == 0, ctx.Privileged)
	assert.Equal(t, "alice", ctx.SudoUser)
	assert.NotNil(t, ctx.Log)
}

func TestRequirePrivilege(t *testing.T) {
	tests := []struct {
		name    string
		ctx     Context
		wantErr bool
	}{
		{
			name:    "privileged passes",
			ctx:     Context{Privileged: true},
			wantErr: false,
		},
		{
			name:    "dry run passes without privilege",
			ctx:     Context{DryRun: true},
			wantErr: false,
		},
		{
			name:    "unprivileged mutation fails",
			ctx:     Context{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ctx.RequirePrivilege("Setting the hostname")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrPrecheck))
				assert.Contains(t, err.Error(), "root privileges")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTargetUser(t *testing.T) {
	current, err := user.Current()
	require.NoError(t, err)

	tests := []struct {
		name     string
		explicit string
		sudoUser string
		want     string
	}{
		{
			name:     "explicit flag wins",
			explicit: "deploy",
			sudoUser: "alice",
			want:     "deploy",
		},
		{
			name:     "sudo user when escalated",
			sudoUser: "alice",
			want:     "alice",
		},
		{
			name:     "sudo as root falls through to invoking user",
			sudoUser: "root",
			want:     current.Username,
		},
		{
			name: "no sudo uses invoking user",
			want: current.Username,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := Context{SudoUser: tt.sudoUser}

			got, err := ctx.TargetUser(tt.explicit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
