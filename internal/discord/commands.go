package discord

import "github.com/bwmarrin/discordgo"

const (
	CommandAsk         = "ask"
	CommandLoreStart   = "lore_start"
	CommandLoreNote    = "lore_note"
	CommandLoreList    = "lore_list"
	CommandLoreClose   = "lore_close"
	CommandLoreHistory = "lore_history"
	CommandLoreRecap   = "lore_recap"

	OptionQuestion  = "question"
	OptionTitle     = "title"
	OptionText      = "text"
	OptionSummary   = "summary"
	OptionLimit     = "limit"
	OptionSessionID = "session_id"
)

func stringOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

func integerOption(name, description string, required bool) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        name,
		Description: description,
		Required:    required,
	}
}

// Commands is the slash command set registered on ready.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        CommandAsk,
			Description: "Ask the oracle a Dungeons & Dragons rules question",
			Options:     []*discordgo.ApplicationCommandOption{stringOption(OptionQuestion, "Your question", true)},
		},
		{
			Name:        CommandLoreStart,
			Description: "Start a lore session in this server",
			Options:     []*discordgo.ApplicationCommandOption{stringOption(OptionTitle, "Session title", false)},
		},
		{
			Name:        CommandLoreNote,
			Description: "Record a note in the open session",
			Options:     []*discordgo.ApplicationCommandOption{stringOption(OptionText, "What happened", true)},
		},
		{
			Name:        CommandLoreList,
			Description: "List the notes of the open session",
		},
		{
			Name:        CommandLoreClose,
			Description: "Close the open session",
			Options:     []*discordgo.ApplicationCommandOption{stringOption(OptionSummary, "Recap of the session", false)},
		},
		{
			Name:        CommandLoreHistory,
			Description: "Show the most recent sessions of this server",
			Options:     []*discordgo.ApplicationCommandOption{integerOption(OptionLimit, "How many sessions", false)},
		},
		{
			Name:        CommandLoreRecap,
			Description: "Read a past session, or rewrite its recap",
			Options: []*discordgo.ApplicationCommandOption{
				integerOption(OptionSessionID, "Session number", true),
				stringOption(OptionSummary, "New recap for a closed session", false),
			},
		},
	}
}
