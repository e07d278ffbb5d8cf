package discord

import (
	"context"
	"fmt"

	"github.com/academiace/rolesync/internal/config"
	membershipdomain "github.com/academiace/rolesync/internal/membership/domain"
	"github.com/bwmarrin/discordgo"
)

// Adapter exposes the guild's role surface as the membership Store and
// Notifier ports. Discord serializes role mutations on its side and treats a
// re-grant of a held role as a no-op, which is what the synchronizer assumes.
type Adapter struct {
	session *discordgo.Session
	guildID string
}

func NewAdapter(session *discordgo.Session, cfg config.Config) *Adapter {
	return &Adapter{
		session: session,
		guildID: cfg.GuildID,
	}
}

func (a *Adapter) GroupRoles(ctx context.Context) ([]membershipdomain.Role, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	roles, err := a.session.GuildRoles(a.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("guild roles: %w", err)
	}

	out := make([]membershipdomain.Role, 0, len(roles))
	for _, role := range roles {
		out = append(out, membershipdomain.Role{ID: role.ID, Name: role.Name})
	}
	return out, nil
}

func (a *Adapter) MemberRoleIDs(ctx context.Context, memberID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	member, err := a.session.GuildMember(a.guildID, memberID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("guild member: %w", err)
	}
	return member.Roles, nil
}

func (a *Adapter) AddMemberRole(ctx context.Context, memberID, roleID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := a.session.GuildMemberRoleAdd(a.guildID, memberID, roleID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("add member role: %w", err)
	}
	return nil
}

// SendWelcome delivers the one-time welcome embed over DM. Members who block
// direct messages make this fail; the caller swallows that by contract.
func (a *Adapter) SendWelcome(ctx context.Context, member membershipdomain.Member) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	channel, err := a.session.UserChannelCreate(member.ID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("open dm channel: %w", err)
	}
	if _, err := a.session.ChannelMessageSendEmbed(channel.ID, welcomeEmbed(), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send welcome: %w", err)
	}
	return nil
}
