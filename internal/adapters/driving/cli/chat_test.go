package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/ragdesk/internal/adapters/driving/tui"
)

func TestChatCmd_Registered(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"chat"})

	assert.NoError(t, err)
	assert.Equal(t, chatCmd, cmd)
}

func TestChatCmd_RequiresAskService(t *testing.T) {
	SetServices(nil)

	_, err := executeCommand("chat")

	assert.ErrorIs(t, err, tui.ErrMissingAskService)
}

func TestChatCmd_OpenFlag(t *testing.T) {
	flag := chatCmd.Flags().Lookup("open")

	assert.NotNil(t, flag)
	assert.Equal(t, "menu", flag.DefValue)
	assert.Contains(t, flag.Usage, "documents")
}

func TestChatCmd_UnknownView(t *testing.T) {
	SetServices(nil)

	_, err := executeCommand("chat", "--open", "settings")

	assert.ErrorContains(t, err, `unknown view "settings"`)
}
