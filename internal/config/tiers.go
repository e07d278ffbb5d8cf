package config

import (
	"log"
	"strings"
	"sync/atomic"

	"github.com/academiace/rolesync/internal/tier"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// TierTableHolder serves the current tag → tier mapping. The table is loaded
// from tiers.yml when present, falling back to the compiled-in mapping, and is
// hot-reloaded on file change so adding a product tag does not need a restart.
type TierTableHolder struct {
	current atomic.Value // holds tier.Table
}

func NewTierTableHolder() (*TierTableHolder, error) {
	v := viper.New()

	v.SetConfigName("tiers")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/rolesync/config") // Volume-mounted config
	v.AddConfigPath("/etc/rolesync")            // System config
	v.AddConfigPath(".")                        // Current directory (dev mode)

	v.SetEnvPrefix("ROLESYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		v.SetDefault("tiers", map[string]string(tier.DefaultTable()))
	}

	table, err := readTable(v)
	if err != nil {
		return nil, err
	}

	holder := &TierTableHolder{}
	holder.current.Store(table)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := readTable(v)
		if err != nil {
			log.Printf("[tier-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[tier-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticTierTableHolder wraps a fixed table. Used by tests and one-off
// tooling that does not want file watching.
func NewStaticTierTableHolder(table tier.Table) *TierTableHolder {
	holder := &TierTableHolder{}
	holder.current.Store(table)
	return holder
}

func (h *TierTableHolder) Get() tier.Table {
	return h.current.Load().(tier.Table)
}

func readTable(v *viper.Viper) (tier.Table, error) {
	var raw map[string]string
	if err := v.UnmarshalKey("tiers", &raw); err != nil {
		return nil, err
	}
	table := tier.Table(raw)
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}
