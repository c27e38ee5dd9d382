package testutils

import (
	"time"

	guildevents "github.com/Black-And-White-Club/guild-sidecar/app/modules/guild/domain/events"
	"github.com/brianvoe/gofakeit/v7"
)

// TestDataGenerator provides methods to create guild events for integration tests
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator creates a new test data generator with optional seed
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}

	return &TestDataGenerator{
		faker: gofakeit.New(uint64(s)),
		seed:  s,
	}
}

// Seed returns the seed the generator was created with.
func (g *TestDataGenerator) Seed() int64 { return g.seed }

// GenerateGuild returns the common part of a member event for a random guild
// in realmID.
func (g *TestDataGenerator) GenerateGuild(realmID uint32) guildevents.GenericGuildEvent {
	return guildevents.GenericGuildEvent{
		ServiceID: g.faker.UUID(),
		RealmID:   realmID,
		GuildID:   g.faker.Uint64(),
		GuildName: g.faker.Company(),
	}
}

// GenerateMemberAdded returns a MemberAdded payload for guild.
func (g *TestDataGenerator) GenerateMemberAdded(guild guildevents.GenericGuildEvent) *guildevents.MemberAddedPayload {
	return &guildevents.MemberAddedPayload{
		GenericGuildEvent: guild,
		MemberGUID:        g.faker.Uint64(),
		MemberName:        g.faker.Username(),
	}
}

// GenerateMemberLeft returns a MemberLeft payload for guild.
func (g *TestDataGenerator) GenerateMemberLeft(guild guildevents.GenericGuildEvent) *guildevents.MemberLeftPayload {
	return &guildevents.MemberLeftPayload{
		GenericGuildEvent: guild,
		MemberGUID:        g.faker.Uint64(),
		MemberName:        g.faker.Username(),
	}
}

// GenerateMemberKicked returns a MemberKicked payload for guild.
func (g *TestDataGenerator) GenerateMemberKicked(guild guildevents.GenericGuildEvent) *guildevents.MemberKickedPayload {
	return &guildevents.MemberKickedPayload{
		GenericGuildEvent: guild,
		MemberGUID:        g.faker.Uint64(),
		MemberName:        g.faker.Username(),
		KickerGUID:        g.faker.Uint64(),
		KickerName:        g.faker.Username(),
	}
}
