package discord

import (
	"fmt"

	"github.com/academiace/rolesync/internal/config"
	"github.com/bwmarrin/discordgo"
)

// NewSession builds the gateway session. Guild member and message intents
// mirror what the join and claim flows need; nothing broader.
func NewSession(cfg config.Config) (*discordgo.Session, error) {
	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is required")
	}
	if cfg.GuildID == "" {
		return nil, fmt.Errorf("GUILD_ID is required")
	}

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers
	return session, nil
}
