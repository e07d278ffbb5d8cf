package discord

import (
	"fmt"
	"strings"

	reconciledomain "github.com/academiace/rolesync/internal/reconcile/domain"
	"github.com/bwmarrin/discordgo"
)

const (
	colorGreen = 0x2ecc71
	colorBlue  = 0x3498db
	colorRed   = 0xe74c3c
)

func welcomeEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "¡Bienvenido a Academia de Ciencias del Ejercicio!",
		Description: "Tienes acceso al rol **Free**. Para acceder a más contenido, compra un producto en nuestra tienda.",
		Color:       colorGreen,
	}
}

// claimEmbed renders the single user-facing reply for a claim outcome.
// NotFound and Failure echo the order id so support can follow up.
func claimEmbed(outcome reconciledomain.Outcome) *discordgo.MessageEmbed {
	switch outcome.Kind {
	case reconciledomain.KindGranted:
		if len(outcome.GrantedTiers) == 0 {
			return &discordgo.MessageEmbed{
				Title:       "✅ Roles Verified",
				Description: fmt.Sprintf("You already have every role from order #%s: %s", outcome.OrderID, strings.Join(outcome.EntitledTiers, ", ")),
				Color:       colorGreen,
			}
		}
		return &discordgo.MessageEmbed{
			Title:       "✅ Roles Assigned",
			Description: "You have been assigned: " + strings.Join(outcome.GrantedTiers, ", "),
			Color:       colorGreen,
		}
	case reconciledomain.KindNoEntitlements:
		return &discordgo.MessageEmbed{
			Title:       "❌ No Roles Found",
			Description: fmt.Sprintf("No valid roles found for order #%s", outcome.OrderID),
			Color:       colorRed,
		}
	case reconciledomain.KindNotFound:
		return &discordgo.MessageEmbed{
			Title:       "❌ Order Not Found",
			Description: fmt.Sprintf("Order #%s not found", outcome.OrderID),
			Color:       colorRed,
		}
	default:
		return &discordgo.MessageEmbed{
			Title:       "❌ Error Processing Order",
			Description: fmt.Sprintf("Something went wrong processing order #%s. Please try again or contact support with this order id.", outcome.OrderID),
			Color:       colorRed,
		}
	}
}

func rolesEmbed(roleNames []string) *discordgo.MessageEmbed {
	if len(roleNames) == 0 {
		return &discordgo.MessageEmbed{
			Title:       "Your Roles",
			Description: "You have no roles assigned",
			Color:       colorBlue,
		}
	}
	lines := make([]string, 0, len(roleNames))
	for _, name := range roleNames {
		lines = append(lines, "• "+name)
	}
	return &discordgo.MessageEmbed{
		Title:       "Your Roles",
		Description: strings.Join(lines, "\n"),
		Color:       colorBlue,
	}
}
