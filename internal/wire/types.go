package wire

// Message type codes. R-type is always T-type+1, except that Terror
// (106) is reserved and unused -- Rerror (107) is sent unsolicited in
// response to any failed request, not paired with a Terror.
const (
	msgTversion uint8 = 100
	msgRversion uint8 = 101
	msgTauth    uint8 = 102
	msgRauth    uint8 = 103
	msgTattach  uint8 = 104
	msgRattach  uint8 = 105
	// 106 (Terror) is reserved, never sent.
	msgRerror  uint8 = 107
	msgTflush  uint8 = 108
	msgRflush  uint8 = 109
	msgTwalk   uint8 = 110
	msgRwalk   uint8 = 111
	msgTopen   uint8 = 112
	msgRopen   uint8 = 113
	msgTcreate uint8 = 114
	msgRcreate uint8 = 115
	msgTread   uint8 = 116
	msgRread   uint8 = 117
	msgTwrite  uint8 = 118
	msgRwrite  uint8 = 119
	msgTclunk  uint8 = 120
	msgRclunk  uint8 = 121
	msgTremove uint8 = 122
	msgRremove uint8 = 123
	msgTstat   uint8 = 124
	msgRstat   uint8 = 125
	msgTwstat  uint8 = 126
	msgRwstat  uint8 = 127
)

// Exported aliases of the type codes, for callers that need to branch
// on Message.MsgType() without a type switch (e.g. logging).
const (
	MsgTversion = msgTversion
	MsgRversion = msgRversion
	MsgTauth    = msgTauth
	MsgRauth    = msgRauth
	MsgTattach  = msgTattach
	MsgRattach  = msgRattach
	MsgRerror   = msgRerror
	MsgTflush   = msgTflush
	MsgRflush   = msgRflush
	MsgTwalk    = msgTwalk
	MsgRwalk    = msgRwalk
	MsgTopen    = msgTopen
	MsgRopen    = msgRopen
	MsgTcreate  = msgTcreate
	MsgRcreate  = msgRcreate
	MsgTread    = msgTread
	MsgRread    = msgRread
	MsgTwrite   = msgTwrite
	MsgRwrite   = msgRwrite
	MsgTclunk   = msgTclunk
	MsgRclunk   = msgRclunk
	MsgTremove  = msgTremove
	MsgRremove  = msgRremove
	MsgTstat    = msgTstat
	MsgRstat    = msgRstat
	MsgTwstat   = msgTwstat
	MsgRwstat   = msgRwstat
)

// Message is implemented by every one of the thirteen T/R message
// pairs. The type is a closed sum: a type switch over Message's
// concrete types is exhaustive by construction (spec §9, "tagged
// union over inheritance").
type Message interface {
	// MsgType returns the message's wire type code.
	MsgType() uint8

	// MsgTag returns the message's tag, the correlator joining a
	// T-message to its reply.
	MsgTag() uint16

	// Pack serializes the message, including its size[4] type[1]
	// tag[2] header, into buf and returns the number of bytes
	// written, or 0 if buf is too small.
	Pack(buf []byte) int

	// Len returns the number of bytes Pack will write.
	Len() int
}
