package discord

import (
	"github.com/bwmarrin/discordgo"
)

// FakeSession provides a programmable stub for the Session interface. Each
// interface method has a corresponding Func field that can be set per-test;
// unset methods return zero values. Calls() records the method names invoked,
// in order.
type FakeSession struct {
	trace []string

	AddHandlerFunc                func(handler interface{}) func()
	OpenFunc                      func() error
	CloseFunc                     func() error
	GetBotUserFunc                func() (*discordgo.User, error)
	UserFunc                      func(userID string, options ...discordgo.RequestOption) (*discordgo.User, error)
	InteractionRespondFunc        func(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreateFunc     func(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendFunc        func(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplexFunc func(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplexFunc func(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageFunc            func(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	MessageReactionsFunc          func(channelID, messageID, emojiID string, limit int, beforeID, afterID string, options ...discordgo.RequestOption) ([]*discordgo.User, error)
	GetChannelFunc                func(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildChannelCreateComplexFunc func(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ApplicationCommandCreateFunc  func(appID, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
}

// NewFakeSession initializes a new FakeSession with an empty trace.
func NewFakeSession() *FakeSession {
	return &FakeSession{trace: make([]string, 0)}
}

// Calls returns the ordered method names invoked on the fake.
func (f *FakeSession) Calls() []string {
	return f.trace
}

func (f *FakeSession) record(name string) {
	f.trace = append(f.trace, name)
}

func (f *FakeSession) AddHandler(handler interface{}) func() {
	f.record("AddHandler")
	if f.AddHandlerFunc != nil {
		return f.AddHandlerFunc(handler)
	}
	return func() {}
}

func (f *FakeSession) Open() error {
	f.record("Open")
	if f.OpenFunc != nil {
		return f.OpenFunc()
	}
	return nil
}

func (f *FakeSession) Close() error {
	f.record("Close")
	if f.CloseFunc != nil {
		return f.CloseFunc()
	}
	return nil
}

func (f *FakeSession) GetBotUser() (*discordgo.User, error) {
	f.record("GetBotUser")
	if f.GetBotUserFunc != nil {
		return f.GetBotUserFunc()
	}
	return &discordgo.User{ID: "bot-user"}, nil
}

func (f *FakeSession) User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error) {
	f.record("User")
	if f.UserFunc != nil {
		return f.UserFunc(userID, options...)
	}
	return &discordgo.User{ID: userID, Username: "user-" + userID}, nil
}

func (f *FakeSession) InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error {
	f.record("InteractionRespond")
	if f.InteractionRespondFunc != nil {
		return f.InteractionRespondFunc(interaction, resp, options...)
	}
	return nil
}

func (f *FakeSession) FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.record("FollowupMessageCreate")
	if f.FollowupMessageCreateFunc != nil {
		return f.FollowupMessageCreateFunc(interaction, wait, data, options...)
	}
	return &discordgo.Message{}, nil
}

func (f *FakeSession) ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.record("ChannelMessageSend")
	if f.ChannelMessageSendFunc != nil {
		return f.ChannelMessageSendFunc(channelID, content, options...)
	}
	return &discordgo.Message{ChannelID: channelID}, nil
}

func (f *FakeSession) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.record("ChannelMessageSendComplex")
	if f.ChannelMessageSendComplexFunc != nil {
		return f.ChannelMessageSendComplexFunc(channelID, data, options...)
	}
	return &discordgo.Message{ID: "sent-message", ChannelID: channelID}, nil
}

func (f *FakeSession) ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.record("ChannelMessageEditComplex")
	if f.ChannelMessageEditComplexFunc != nil {
		return f.ChannelMessageEditComplexFunc(m, options...)
	}
	return &discordgo.Message{ID: m.ID, ChannelID: m.Channel}, nil
}

func (f *FakeSession) ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.record("ChannelMessage")
	if f.ChannelMessageFunc != nil {
		return f.ChannelMessageFunc(channelID, messageID, options...)
	}
	return &discordgo.Message{ID: messageID, ChannelID: channelID}, nil
}

func (f *FakeSession) MessageReactions(channelID, messageID, emojiID string, limit int, beforeID, afterID string, options ...discordgo.RequestOption) ([]*discordgo.User, error) {
	f.record("MessageReactions")
	if f.MessageReactionsFunc != nil {
		return f.MessageReactionsFunc(channelID, messageID, emojiID, limit, beforeID, afterID, options...)
	}
	return nil, nil
}

func (f *FakeSession) GetChannel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.record("GetChannel")
	if f.GetChannelFunc != nil {
		return f.GetChannelFunc(channelID, options...)
	}
	return &discordgo.Channel{ID: channelID}, nil
}

func (f *FakeSession) GuildChannelCreateComplex(guildID string, data discordgo.GuildChannelCreateData, options ...discordgo.RequestOption) (*discordgo.Channel, error) {
	f.record("GuildChannelCreateComplex")
	if f.GuildChannelCreateComplexFunc != nil {
		return f.GuildChannelCreateComplexFunc(guildID, data, options...)
	}
	return &discordgo.Channel{ID: "ticket-channel", Name: data.Name}, nil
}

func (f *FakeSession) ApplicationCommandCreate(appID, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error) {
	f.record("ApplicationCommandCreate")
	if f.ApplicationCommandCreateFunc != nil {
		return f.ApplicationCommandCreateFunc(appID, guildID, cmd, options...)
	}
	return cmd, nil
}
