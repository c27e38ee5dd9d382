package guildevents

import (
	"errors"
	"testing"

	guildhooks "github.com/Black-And-White-Club/guild-sidecar/app/modules/guild/hooks"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshal_GuildServiceWireFormat(t *testing.T) {
	// Body as published by the guild service.
	data := []byte(`{"v":"1.0.0","t":4,"p":{"ServiceID":"guilds-1","RealmID":1,"GuildID":77,` +
		`"GuildName":"Nightfall","MembersOnline":[5,6],"MemberGUID":12,"MemberName":"Arthas",` +
		`"KickerGUID":5,"KickerName":"Jaina"}}`)

	var p MemberKickedPayload
	got, err := Unmarshal(data, &p)
	require.NoError(t, err)
	assert.Equal(t, MemberKicked, got)

	want := MemberKickedPayload{
		GenericGuildEvent: GenericGuildEvent{
			ServiceID:     "guilds-1",
			RealmID:       1,
			GuildID:       77,
			GuildName:     "Nightfall",
			MembersOnline: []uint64{5, 6},
		},
		MemberGUID: 12,
		MemberName: "Arthas",
		KickerGUID: 5,
		KickerName: "Jaina",
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshal_RoundTripsThroughUnmarshalAs(t *testing.T) {
	in := &MemberAddedPayload{
		GenericGuildEvent: GenericGuildEvent{RealmID: 2, GuildID: 100},
		MemberGUID:        200,
	}
	data, err := Marshal("1.0.0", MemberAdded, in)
	require.NoError(t, err)

	var out MemberAddedPayload
	require.NoError(t, UnmarshalAs(data, MemberAdded, &out))
	assert.Equal(t, *in, out)
}

func TestUnmarshalAs_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    EventType
		wantErr error
	}{
		{
			name:    "type mismatch",
			data:    `{"v":"1","t":3,"p":{}}`,
			want:    MemberAdded,
			wantErr: ErrEventTypeMismatch,
		},
		{
			name: "not json",
			data: `nope`,
			want: MemberAdded,
		},
		{
			name: "payload of wrong shape",
			data: `{"v":"1","t":2,"p":"string"}`,
			want: MemberAdded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p MemberAddedPayload
			err := UnmarshalAs([]byte(tt.data), tt.want, &p)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
		})
	}
}

func TestUnmarshalAs_MissingTypeAccepted(t *testing.T) {
	var p MemberLeftPayload
	require.NoError(t, UnmarshalAs([]byte(`{"p":{"GuildID":3,"MemberGUID":4}}`), MemberLeft, &p))
	assert.Equal(t, uint64(3), p.GuildID)
	assert.Equal(t, uint64(4), p.MemberGUID)
}

func TestEventType_Mapping(t *testing.T) {
	tests := []struct {
		eventType EventType
		subject   string
		kind      guildhooks.Kind
	}{
		{MemberAdded, GuildMemberAddedV1, guildhooks.MemberAdded},
		{MemberLeft, GuildMemberLeftV1, guildhooks.MemberLeft},
		{MemberKicked, GuildMemberKickedV1, guildhooks.MemberRemoved},
	}

	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			subject, err := tt.eventType.Subject()
			require.NoError(t, err)
			assert.Equal(t, tt.subject, subject)

			kind, err := tt.eventType.HookKind()
			require.NoError(t, err)
			assert.Equal(t, tt.kind, kind)

			back, err := EventTypeForKind(kind)
			require.NoError(t, err)
			assert.Equal(t, tt.eventType, back)
		})
	}

	_, err := InviteCreated.Subject()
	assert.ErrorIs(t, err, ErrUnknownEventType)
	_, err = InviteCreated.HookKind()
	assert.ErrorIs(t, err, ErrUnknownEventType)
	_, err = EventTypeForKind(guildhooks.Kind(99))
	assert.ErrorIs(t, err, ErrUnknownEventType)
}
