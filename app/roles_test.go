package app

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AssocCMS/AssocCMS/internal/rbac"
)

func TestPrintRoles(t *testing.T) {
	var buf bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	require.NoError(t, printRoles(cmd, rbac.DefaultTable()))

	out := buf.String()
	assert.Contains(t, out, "PERMISSION")
	assert.Contains(t, out, string(rbac.PermManageUsers))

	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "VIEWER:") {
			assert.Equal(t, "VIEWER: /admin", line)
		}
	}
}
