package discord

import (
	"context"
	"time"

	"github.com/academiace/rolesync/internal/config"
	membershipdomain "github.com/academiace/rolesync/internal/membership/domain"
	obslogger "github.com/academiace/rolesync/internal/observability/logger"
	reconciledomain "github.com/academiace/rolesync/internal/reconcile/domain"
	"github.com/bwmarrin/discordgo"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// claimTimeout bounds one claim end to end: order fetch, one tag fetch per
// line item, and the role grants.
const claimTimeout = 30 * time.Second

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "claim",
		Description: "Claim your roles from a store order",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "order_id",
				Description: "The order number from your purchase confirmation",
				Required:    true,
			},
		},
	},
	{
		Name:        "myroles",
		Description: "Show your current roles",
	},
}

// Bot adapts gateway events onto the reconciliation engine. All decision
// logic lives behind the engine; this layer only parses events and renders
// replies.
type Bot struct {
	session *discordgo.Session
	engine  reconciledomain.Engine
	guildID string
	log     *zap.Logger
}

func NewBot(session *discordgo.Session, engine reconciledomain.Engine, cfg config.Config, log *zap.Logger) *Bot {
	return &Bot{
		session: session,
		engine:  engine,
		guildID: cfg.GuildID,
		log:     log,
	}
}

// Register wires gateway handlers and opens the session on startup.
func Register(lc fx.Lifecycle, bot *Bot) {
	bot.session.AddHandler(bot.onReady)
	bot.session.AddHandler(bot.onInteraction)
	bot.session.AddHandler(bot.onMemberJoin)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return bot.session.Open()
		},
		OnStop: func(ctx context.Context) error {
			return bot.session.Close()
		},
	})
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	if err := s.UpdateWatchStatus(0, "for new purchases"); err != nil {
		b.log.Warn("failed to set presence", zap.Error(err))
	}
	if _, err := s.ApplicationCommandBulkOverwrite(r.User.ID, b.guildID, commands); err != nil {
		b.log.Error("failed to register commands", zap.Error(err))
		return
	}
	b.log.Info("discord session ready", zap.String("user", r.User.Username))
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if i.Member == nil || i.Member.User == nil {
		// DM interactions have no guild member; both commands are guild-only.
		return
	}

	data := i.ApplicationCommandData()
	switch data.Name {
	case "claim":
		b.handleClaim(s, i, data)
	case "myroles":
		b.handleMyRoles(s, i)
	}
}

func (b *Bot) handleClaim(s *discordgo.Session, i *discordgo.InteractionCreate, data discordgo.ApplicationCommandInteractionData) {
	member := membershipdomain.Member{
		ID:          i.Member.User.ID,
		DisplayName: i.Member.User.Username,
	}
	log := obslogger.WithMember(b.log, member.ID)

	if len(data.Options) == 0 {
		return
	}
	orderID := data.Options[0].StringValue()

	// Resolution can take several round trips; acknowledge first so the
	// interaction token does not expire.
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		log.Error("failed to acknowledge claim", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), claimTimeout)
	defer cancel()

	outcome := b.engine.HandleClaim(ctx, orderID, member, "discord")

	embed := claimEmbed(outcome)
	_, err = s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		log.Error("failed to send claim response", zap.Error(err))
	}
}

func (b *Bot) handleMyRoles(s *discordgo.Session, i *discordgo.InteractionCreate) {
	log := obslogger.WithMember(b.log, i.Member.User.ID)

	roles, err := s.GuildRoles(b.guildID)
	if err != nil {
		log.Error("failed to list guild roles", zap.Error(err))
		return
	}
	names := make(map[string]string, len(roles))
	for _, role := range roles {
		names[role.ID] = role.Name
	}

	held := make([]string, 0, len(i.Member.Roles))
	for _, roleID := range i.Member.Roles {
		if name, ok := names[roleID]; ok {
			held = append(held, name)
		}
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{rolesEmbed(held)},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Error("failed to send roles response", zap.Error(err))
	}
}

func (b *Bot) onMemberJoin(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.GuildID != b.guildID || m.User == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), claimTimeout)
	defer cancel()

	member := membershipdomain.Member{ID: m.User.ID, DisplayName: m.User.Username}
	if err := b.engine.HandleJoin(ctx, member); err != nil {
		obslogger.WithMember(b.log, member.ID).Error("join provisioning failed", zap.Error(err))
	}
}
