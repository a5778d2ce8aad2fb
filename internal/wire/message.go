package wire

// Tversion negotiates the protocol version and msize for a
// conversation. It must be the first message sent, and must use Tag
// == NoTag.
type Tversion struct {
	Tag     uint16
	Msize   uint32
	Version string
}

func (m Tversion) MsgType() uint8 { return msgTversion }
func (m Tversion) MsgTag() uint16 { return m.Tag }
func (m Tversion) bodyLen() int   { return 4 + 2 + len(m.Version) }
func (m Tversion) Len() int       { return 7 + m.bodyLen() }

func (m Tversion) Pack(buf []byte) int {
	if len(m.Version) > MaxVersionLen || len(buf) < m.Len() {
		return 0
	}
	w, sw := newEncoder(buf)
	putHeader(w, uint32(m.Len()), msgTversion, m.Tag)
	putUint32(w, m.Msize)
	putString(w, m.Version)
	if w.Err != nil {
		return 0
	}
	return sw.off
}

// Rversion is the server's response to Tversion.
type Rversion struct {
	Tag     uint16
	Msize   uint32
	Version string
}

func (m Rversion) MsgType() uint8 { return msgRversion }
func (m Rversion) MsgTag() uint16 { return m.Tag }
func (m Rversion) bodyLen() int   { return 4 + 2 + len(m.Version) }
func (m Rversion) Len() int       { return 7 + m.bodyLen() }

func (m Rversion) Pack(buf []byte) int {
	if len(m.Version) > MaxVersionLen || len(buf) < m.Len() {
		return 0
	}
	w, sw := newEncoder(buf)
	putHeader(w, uint32(m.Len()), msgRversion, m.Tag)
	putUint32(w, m.Msize)
	putString(w, m.Version)
	if w.Err != nil {
		return 0
	}
	return sw.off
}

// Tauth begins the (out-of-band) authentication protocol on afid.
type Tauth struct {
	Tag   uint16
	Afid  uint32
	Uname string
	Aname string
}

func (m Tauth) MsgType() uint8 { return msgTauth }
func (m Tauth) MsgTag() uint16 { return m.Tag }
func (m Tauth) bodyLen() int   { return 4 + 2 + len(m.Uname) + 2 + len(m.Aname) }
func (m Tauth) Len() int       { return 7 + m.bodyLen() }

func (m Tauth) Pack(buf []byte) int {
	if len(m.Uname) > MaxUidLen || len(m.Aname) > MaxAttachLen || len(buf) < m.Len() {
		return 0
	}
	w, sw := newEncoder(buf)
	putHeader(w, uint32(m.Len()), msgTauth, m.Tag)
	putUint32(w, m.Afid)
	putString(w, m.Uname, m.Aname)
	if w.Err != nil {
		return 0
	}
	return sw.off
}

// Rauth carries the afid's Qid, which must be of type QTAUTH.
type Rauth struct {
	Tag  uint16
	Aqid Qid
}

func (m Rauth) MsgType() uint8 { return msgRauth }
func (m Rauth) MsgTag() uint16 { return m.Tag }
func (m Rauth) Len() int       { return 7 + QidLen }

func (m Rauth) Pack(buf []byte) int {
	if len(buf) < m.Len() {
		return 0
	}
	w, sw := newEncoder(buf)
	putHeader(w, uint32(m.Len()), msgRauth, m.Tag)
	packQid(w, m.Aqid)
	if w.Err != nil {
		return 0
	}
	return sw.off
}

// Rerror reports that the request with the same tag failed. It is
// sent unsolicited -- there is no corresponding Terror.
type Rerror struct {
	Tag   uint16
	Ename string
}

func (m Rerror) MsgType() uint8 { return msgRerror }
func (m Rerror) MsgTag() uint16 { return m.Tag }
func (m Rerror) bodyLen() int   { return 2 + min(len(m.Ename), MaxErrorLen) }
func (m Rerror) Len() int       { return 7 + m.bodyLen() }
func (m Rerror) Error() string  { return m.Ename }

func (m Rerror) Pack(buf []byte) int {
	ename := m.Ename
	if len(ename) > MaxErrorLen {
		ename = ename[:MaxErrorLen]
	}
	n := 7 + 2 + len(ename)
	if len(buf) < n {
		return 0
	}
	w, sw := newEncoder(buf)
	putHeader(w, uint32(n), msgRerror, m.Tag)
	putString(w, ename)
	if w.Err != nil {
		return 0
	}
	return sw.off
}

// Tflush asks the server to cancel a pending request bearing Oldtag.
// The client must treat Oldtag as still in flight until Rflush
// arrives (spec §4.5, "Flush semantics").
type Tflush struct {
	Tag    uint16
	Oldtag uint16
}

func (m Tflush) MsgType() uint8 { return msgTflush }
func (m Tflush) MsgTag() uint16 { return m.Tag }
func (m Tflush) Len() int       { return 7 + 2 }

func (m Tflush) Pack(buf []byte) int {
	if len(buf) < m.Len() {
		return 0
	}
	w, sw := newEncoder(buf)
	putHeader(w, uint32(m.Len()), msgTflush, m.Tag)
	putUint16(w, m.Oldtag)
	if w.Err != nil {
		return 0
	}
	return sw.off
}

// Rflush acknowledges a Tflush; Oldtag may now be reused.
type Rflush struct{ Tag uint16 }

func (m Rflush) MsgType() uint8 { return msgRflush }
func (m Rflush) MsgTag() uint16 { return m.Tag }
func (m Rflush) Len() int       { return 7 }

func (m Rflush) Pack(buf []byte) int {
	if len(buf) < m.Len() {
		return 0
	}
	w, sw := newEncoder(buf)
	putHeader(w, uint32(m.Len()), msgRflush, m.Tag)
	if w.Err != nil {
		return 0
	}
	return sw.off
}

// Tattach introduces uname to the server, requesting the root of the
// file tree named by aname be associated with fid.
type Tattach struct {
	Tag   uint16
	Fid   uint32
	Afid  uint32
	Uname string
	Aname string
}

func (m Tattach) MsgType() uint8 { return msgTattach }
func (m Tattach) MsgTag() uint16 { return m.Tag }
func (m Tattach) bodyLen() int   { return 4 + 4 + 2 + len(m.Uname) + 2 + len(m.Aname) }
func (m Tattach) Len() int       { return 7 + m.bodyLen() }

func (m Tattach) Pack(buf []byte) int {
	if len(m.Uname) > MaxUidLen || len(m.Aname) > MaxAttachLen || len(buf) < m.Len() {
		return 0
	}
	w, sw := newEncoder(buf)
	putHeader(w, uint32(m.Len()), msgTattach, m.Tag)
	putUint32(w, m.Fid, m.Afid)
	putString(w, m.Uname, m.Aname)
	if w.Err != nil {
		return 0
	}
	return sw.off
}

// Rattach carries the Qid of the root of the attached tree.
type Rattach struct {
	Tag uint16
	Qid Qid
}

func (m Rattach) MsgType() uint8 { return msgRattach }
func (m Rattach) MsgTag() uint16 { return m.Tag }
func (m Rattach) Len() int       { return 7 + QidLen }

func (m Rattach) Pack(buf []byte) int {
	if len(buf) < m.Len() {
		return 0
	}
	w, sw := newEncoder(buf)
	putHeader(w, uint32(m.Len()), msgRattach, m.Tag)
	packQid(w, m.Qid)
	if w.Err != nil {
		return 0
	}
	return sw.off
}

// Twalk descends Wname, a sequence of at most MaxWElem path elements,
// relative to Fid, binding the result to Newfid.
type Twalk struct {
	Tag    uint16
	Fid    uint32
	Newfid uint32
	Wname  []string
}

func (m Twalk) MsgType() uint8 { return msgTwalk }
func (m Twalk) MsgTag() uint16 { return m.Tag }

func (m Twalk) bodyLen() int {
	n := 4 + 4 + 2
	for _, s := range m.Wname {
		n += 2 + len(s)
	}
	return n
}

func (m Twalk) Len() int {
	if len(m.Wname) > MaxWElem {
		return 0
	}
	return 7 + m.bodyLen()
}

func (m Twalk) Pack(buf []byte) int {
	n := m.Len()
	if n == 0 || len(buf) < n {
		return 0
	}
	w, sw := newEncoder(buf)
	putHeader(w, uint32(n), msgTwalk, m.Tag)
	putUint32(w, m.Fid, m.Newfid)
	putUint16(w, uint16(len(m.Wname)))
	putString(w, m.Wname...)
	if w.Err != nil {
		return 0
	}
	return sw.off
}

// Rwalk returns one Qid per successfully-walked element of the
// corresponding Twalk. len(Wqid) < len(Wname) signals a walk that
// stopped partway, which is not itself an error.
type Rwalk struct {
	Tag  uint16
	Wqid []Qid
}

func (m Rwalk) MsgType() uint8 { return msgRwalk }
func (m Rwalk) MsgTag() uint16 { return m.Tag }
func (m Rwalk) bodyLen() int   { return 2 + len(m.Wqid)*QidLen }

func (m Rwalk) Len() int {
	if len(m.Wqid) > MaxWElem {
		return 0
	}
	return 7 + m.bodyLen()
}

func (m Rwalk) Pack(buf []byte) int {
	n := m.Len()
	if n == 0 || len(buf) < n {
		return 0
	}
	w, sw := newEncoder(buf)
	putHeader(w, uint32(n), msgRwalk, m.Tag)
	putUint16(w, uint16(len(m.Wqid)))
	for _, q := range m.Wqid {
		packQid(w, q)
	}
	if w.Err != nil {
		return 0
	}
	return sw.off
}

// Topen requests that an existing fid be prepared for I/O in the
// given mode.
type Topen struct {
	Tag  uint16
	Fid  uint32
	Mode uint8
}

func (m Topen) MsgType() uint8 { return msgTopen }
func (m Topen) MsgTag() uint16 { return m.Tag }
func (m Topen) Len() int       { return 7 + 4 + 1 }

func (m Topen) Pack(buf []byte) int {
	if len(buf) < m.Len() {
		return 0
	}
	w, sw := newEncoder(buf)
	putHeader(w, uint32(m.Len()), msgTopen, m.Tag)
	putUint32(w, m.Fid)
	putUint8(w, m.Mode)
	if w.Err != nil {
		return 0
	}
	return sw.off
}

// Ropen/Rcreate share a payload: the Qid of the now-open file and a
// suggested I/O unit size.
type Ropen struct {
	Tag    uint16
	Qid    Qid
	IOunit uint32
}

func (m Ropen) MsgType() uint8 { return msgRopen }
func (m Ropen) MsgTag() uint16 { return m.Tag }
func (m Ropen) Len() int       { return 7 + QidLen + 4 }

func (m Ropen) Pack(buf []byte) int {
	if len(buf) < m.Len() {
		return 0
	}
	w, sw := newEncoder(buf)
	putHeader(w, uint32(m.Len()), msgRopen, m.Tag)
	packQid(w, m.Qid)
	putUint32(w, m.IOunit)
	if w.Err != nil {
		return 0
	}
	return sw.off
}

// Tcreate creates a new file named Name in the directory named by
// Fid, then opens it, binding the result to Fid (replacing its
// previous association).
type Tcreate struct {
	Tag  uint16
	Fid  uint32
	Name string
	Perm uint32
	Mode uint8
}

func (m Tcreate) MsgType() uint8 { return msgTcreate }
func (m Tcreate) MsgTag() uint16 { return m.Tag }
func (m Tcreate) bodyLen() int   { return 4 + 2 + len(m.Name) + 4 + 1 }
func (m Tcreate) Len() int       { return 7 + m.bodyLen() }

func (m Tcreate) Pack(buf []byte) int {
	if len(m.Name) > MaxFilenameLen || len(buf) < m.Len() {
		return 0
	}
	w, sw := newEncoder(buf)
	putHeader(w, uint32(m.Len()), msgTcreate, m.Tag)
	putUint32(w, m.Fid)
	putString(w, m.Name)
	putUint32(w, m.Perm)
	putUint8(w, m.Mode)
	if w.Err != nil {
		return 0
	}
	return sw.off
}

// Rcreate mirrors Ropen.
type Rcreate struct {
	Tag    uint16
	Qid    Qid
	IOunit uint32
}

func (m Rcreate) MsgType() uint8 { return msgRcreate }
func (m Rcreate) MsgTag() uint16 { return m.Tag }
func (m Rcreate) Len() int       { return 7 + QidLen + 4 }

func (m Rcreate) Pack(buf []byte) int {
	if len(buf) < m.Len() {
		return 0
	}
	w, sw := newEncoder(buf)
	putHeader(w, uint32(m.Len()), msgRcreate, m.Tag)
	packQid(w, m.Qid)
	putUint32(w, m.IOunit)
	if w.Err != nil {
		return 0
	}
	return sw.off
}

// Tread requests Count bytes starting at Offset from the open file
// named by Fid.
type Tread struct {
	Tag    uint16
	Fid    uint32
	Offset uint64
	Count  uint32
}

func (m Tread) MsgType() uint8 { return msgTread }
func (m Tread) MsgTag() uint16 { return m.Tag }
func (m Tread) Len() int       { return 7 + 4 + 8 + 4 }

func (m Tread) Pack(buf []byte) int {
	if m.Offset > MaxOffset || len(buf) < m.Len() {
		return 0
	}
	w, sw := newEncoder(buf)
	putHeader(w, uint32(m.Len()), msgTread, m.Tag)
	putUint32(w, m.Fid)
	putUint64(w, m.Offset)
	putUint32(w, m.Count)
	if w.Err != nil {
		return 0
	}
	return sw.off
}

// Rread carries the bytes read. Data is always a freshly-owned copy,
// never a view over a caller's decode buffer.
type Rread struct {
	Tag  uint16
	Data []byte
}

func (m Rread) MsgType() uint8 { return msgRread }
func (m Rread) MsgTag() uint16 { return m.Tag }
func (m Rread) Len() int       { return 7 + 4 + len(m.Data) }

func (m Rread) Pack(buf []byte) int {
	if len(buf) < m.Len() {
		return 0
	}
	w, sw := newEncoder(buf)
	putHeader(w, uint32(m.Len()), msgRread, m.Tag)
	putBytes32(w, uint32(len(m.Data)), m.Data)
	if w.Err != nil {
		return 0
	}
	return sw.off
}

// Twrite writes Data at Offset in the open file named by Fid.
type Twrite struct {
	Tag    uint16
	Fid    uint32
	Offset uint64
	Data   []byte
}

func (m Twrite) MsgType() uint8 { return msgTwrite }
func (m Twrite) MsgTag() uint16 { return m.Tag }
func (m Twrite) Len() int       { return 7 + 4 + 8 + 4 + len(m.Data) }

func (m Twrite) Pack(buf []byte) int {
	if m.Offset > MaxOffset || len(buf) < m.Len() {
		return 0
	}
	w, sw := newEncoder(buf)
	putHeader(w, uint32(m.Len()), msgTwrite, m.Tag)
	putUint32(w, m.Fid)
	putUint64(w, m.Offset)
	putBytes32(w, uint32(len(m.Data)), m.Data)
	if w.Err != nil {
		return 0
	}
	return sw.off
}

// Rwrite reports the number of bytes actually written.
type Rwrite struct {
	Tag   uint16
	Count uint32
}

func (m Rwrite) MsgType() uint8 { return msgRwrite }
func (m Rwrite) MsgTag() uint16 { return m.Tag }
func (m Rwrite) Len() int       { return 7 + 4 }

func (m Rwrite) Pack(buf []byte) int {
	if len(buf) < m.Len() {
		return 0
	}
	w, sw := newEncoder(buf)
	putHeader(w, uint32(m.Len()), msgRwrite, m.Tag)
	putUint32(w, m.Count)
	if w.Err != nil {
		return 0
	}
	return sw.off
}

// Tclunk releases Fid. Fid's lifetime ends here whether or not the
// server reports success.
type Tclunk struct {
	Tag uint16
	Fid uint32
}

func (m Tclunk) MsgType() uint8 { return msgTclunk }
func (m Tclunk) MsgTag() uint16 { return m.Tag }
func (m Tclunk) Len() int       { return 7 + 4 }

func (m Tclunk) Pack(buf []byte) int {
	if len(buf) < m.Len() {
		return 0
	}
	w, sw := newEncoder(buf)
	putHeader(w, uint32(m.Len()), msgTclunk, m.Tag)
	putUint32(w, m.Fid)
	if w.Err != nil {
		return 0
	}
	return sw.off
}

// Rclunk acknowledges Tclunk.
type Rclunk struct{ Tag uint16 }

func (m Rclunk) MsgType() uint8 { return msgRclunk }
func (m Rclunk) MsgTag() uint16 { return m.Tag }
func (m Rclunk) Len() int       { return 7 }

func (m Rclunk) Pack(buf []byte) int {
	if len(buf) < m.Len() {
		return 0
	}
	w, sw := newEncoder(buf)
	putHeader(w, uint32(m.Len()), msgRclunk, m.Tag)
	if w.Err != nil {
		return 0
	}
	return sw.off
}

// Tremove removes the file named by Fid, then clunks it regardless of
// whether the remove succeeded.
type Tremove struct {
	Tag uint16
	Fid uint32
}

func (m Tremove) MsgType() uint8 { return msgTremove }
func (m Tremove) MsgTag() uint16 { return m.Tag }
func (m Tremove) Len() int       { return 7 + 4 }

func (m Tremove) Pack(buf []byte) int {
	if len(buf) < m.Len() {
		return 0
	}
	w, sw := newEncoder(buf)
	putHeader(w, uint32(m.Len()), msgTremove, m.Tag)
	putUint32(w, m.Fid)
	if w.Err != nil {
		return 0
	}
	return sw.off
}

// Rremove acknowledges Tremove.
type Rremove struct{ Tag uint16 }

func (m Rremove) MsgType() uint8 { return msgRremove }
func (m Rremove) MsgTag() uint16 { return m.Tag }
func (m Rremove) Len() int       { return 7 }

func (m Rremove) Pack(buf []byte) int {
	if len(buf) < m.Len() {
		return 0
	}
	w, sw := newEncoder(buf)
	putHeader(w, uint32(m.Len()), msgRremove, m.Tag)
	if w.Err != nil {
		return 0
	}
	return sw.off
}

// Tstat requests the Stat record for the file named by Fid.
type Tstat struct {
	Tag uint16
	Fid uint32
}

func (m Tstat) MsgType() uint8 { return msgTstat }
func (m Tstat) MsgTag() uint16 { return m.Tag }
func (m Tstat) Len() int       { return 7 + 4 }

func (m Tstat) Pack(buf []byte) int {
	if len(buf) < m.Len() {
		return 0
	}
	w, sw := newEncoder(buf)
	putHeader(w, uint32(m.Len()), msgTstat, m.Tag)
	putUint32(w, m.Fid)
	if w.Err != nil {
		return 0
	}
	return sw.off
}

// Rstat carries the requested Stat record.
type Rstat struct {
	Tag  uint16
	Stat Stat
}

func (m Rstat) MsgType() uint8 { return msgRstat }
func (m Rstat) MsgTag() uint16 { return m.Tag }
func (m Rstat) Len() int       { return 7 + m.Stat.PackedLen() }

func (m Rstat) Pack(buf []byte) int {
	n := m.Len()
	if n == 0 || len(buf) < n {
		return 0
	}
	w, sw := newEncoder(buf)
	putHeader(w, uint32(n), msgRstat, m.Tag)
	if err := m.Stat.Pack(w); err != nil {
		return 0
	}
	return sw.off
}

// Twstat requests that the file named by Fid take on the attributes
// in Stat. Fields left as their "don't touch" zero sentinel by the
// caller (see spec §4.2) should already have been filled in by the
// caller before Pack is invoked; this package does not special-case
// wstat's partial-update convention.
type Twstat struct {
	Tag  uint16
	Fid  uint32
	Stat Stat
}

func (m Twstat) MsgType() uint8 { return msgTwstat }
func (m Twstat) MsgTag() uint16 { return m.Tag }
func (m Twstat) Len() int       { return 7 + 4 + m.Stat.PackedLen() }

func (m Twstat) Pack(buf []byte) int {
	n := m.Len()
	if n == 0 || len(buf) < n {
		return 0
	}
	w, sw := newEncoder(buf)
	putHeader(w, uint32(n), msgTwstat, m.Tag)
	putUint32(w, m.Fid)
	if err := m.Stat.Pack(w); err != nil {
		return 0
	}
	return sw.off
}

// Rwstat acknowledges Twstat.
type Rwstat struct{ Tag uint16 }

func (m Rwstat) MsgType() uint8 { return msgRwstat }
func (m Rwstat) MsgTag() uint16 { return m.Tag }
func (m Rwstat) Len() int       { return 7 }

func (m Rwstat) Pack(buf []byte) int {
	if len(buf) < m.Len() {
		return 0
	}
	w, sw := newEncoder(buf)
	putHeader(w, uint32(m.Len()), msgRwstat, m.Tag)
	if w.Err != nil {
		return 0
	}
	return sw.off
}
