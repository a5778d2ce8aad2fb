package wire

// Unpack reads a single framed message from the front of buf and
// returns it along with the number of bytes consumed. If buf does not
// yet hold a complete message, Unpack returns ErrTruncated() and the
// caller should read more bytes before retrying; this is the only
// error a streaming reader should treat as non-fatal.
func Unpack(buf []byte) (Message, int, error) {
	if len(buf) < 4 {
		return nil, 0, errTruncated
	}
	size, _, _ := getUint32(buf)
	if size < 7 {
		return nil, 0, ErrBadSize
	}
	if int(size) > len(buf) {
		return nil, 0, errTruncated
	}

	body := buf[4:size]
	mtype, n, ok := getUint8(body)
	if !ok {
		return nil, 0, ErrBadSize
	}
	body = body[n:]
	tag, n, ok := getUint16(body)
	if !ok {
		return nil, 0, ErrBadSize
	}
	body = body[n:]

	minLen := minSizeLUT[mtype]
	if minLen == 0 {
		return nil, 0, ErrUnknownType
	}
	if int(size) < 4+minLen {
		return nil, 0, ErrBadSize
	}
	if fixedSize(mtype) && int(size) != 4+minLen {
		return nil, 0, ErrBadSize
	}

	var m Message
	var err error
	switch mtype {
	case msgTversion:
		m, err = unpackTversion(tag, body)
	case msgRversion:
		m, err = unpackRversion(tag, body)
	case msgTauth:
		m, err = unpackTauth(tag, body)
	case msgRauth:
		m, err = unpackRauth(tag, body)
	case msgTattach:
		m, err = unpackTattach(tag, body)
	case msgRattach:
		m, err = unpackRattach(tag, body)
	case msgRerror:
		m, err = unpackRerror(tag, body)
	case msgTflush:
		m, err = unpackTflush(tag, body)
	case msgRflush:
		m, err = Rflush{Tag: tag}, nil
	case msgTwalk:
		m, err = unpackTwalk(tag, body)
	case msgRwalk:
		m, err = unpackRwalk(tag, body)
	case msgTopen:
		m, err = unpackTopen(tag, body)
	case msgRopen:
		m, err = unpackRopen(tag, body)
	case msgTcreate:
		m, err = unpackTcreate(tag, body)
	case msgRcreate:
		m, err = unpackRcreate(tag, body)
	case msgTread:
		m, err = unpackTread(tag, body)
	case msgRread:
		m, err = unpackRread(tag, body)
	case msgTwrite:
		m, err = unpackTwrite(tag, body)
	case msgRwrite:
		m, err = unpackRwrite(tag, body)
	case msgTclunk:
		m, err = unpackTclunk(tag, body)
	case msgRclunk:
		m, err = Rclunk{Tag: tag}, nil
	case msgTremove:
		m, err = unpackTremove(tag, body)
	case msgRremove:
		m, err = Rremove{Tag: tag}, nil
	case msgTstat:
		m, err = unpackTstat(tag, body)
	case msgRstat:
		m, err = unpackRstat(tag, body)
	case msgTwstat:
		m, err = unpackTwstat(tag, body)
	case msgRwstat:
		m, err = Rwstat{Tag: tag}, nil
	default:
		return nil, 0, ErrUnknownType
	}
	if err != nil {
		return nil, 0, err
	}
	var version string
	switch v := m.(type) {
	case Tversion:
		version = v.Version
	case Rversion:
		version = v.Version
	default:
		return m, int(size), nil
	}
	if tag != NoTag {
		return nil, 0, ErrWrongTag
	}
	if version != "unknown" && (len(version) < 2 || version[:2] != "9P") {
		return nil, 0, ErrInvalidVersion
	}
	return m, int(size), nil
}

func unpackTversion(tag uint16, body []byte) (Tversion, error) {
	msize, n, ok := getUint32(body)
	if !ok {
		return Tversion{}, ErrBadSize
	}
	body = body[n:]
	version, n, ok := getString(body)
	if !ok || len(version) > MaxVersionLen {
		return Tversion{}, ErrLongString
	}
	body = body[n:]
	if len(body) != 0 {
		return Tversion{}, ErrBadSize
	}
	return Tversion{Tag: tag, Msize: msize, Version: version}, nil
}

func unpackRversion(tag uint16, body []byte) (Rversion, error) {
	msize, n, ok := getUint32(body)
	if !ok {
		return Rversion{}, ErrBadSize
	}
	body = body[n:]
	version, n, ok := getString(body)
	if !ok || len(version) > MaxVersionLen {
		return Rversion{}, ErrLongString
	}
	body = body[n:]
	if len(body) != 0 {
		return Rversion{}, ErrBadSize
	}
	return Rversion{Tag: tag, Msize: msize, Version: version}, nil
}

func unpackTauth(tag uint16, body []byte) (Tauth, error) {
	afid, n, ok := getUint32(body)
	if !ok {
		return Tauth{}, ErrBadSize
	}
	body = body[n:]
	uname, n, ok := getString(body)
	if !ok || len(uname) > MaxUidLen {
		return Tauth{}, ErrLongString
	}
	body = body[n:]
	aname, n, ok := getString(body)
	if !ok || len(aname) > MaxAttachLen {
		return Tauth{}, ErrLongString
	}
	body = body[n:]
	if len(body) != 0 {
		return Tauth{}, ErrBadSize
	}
	return Tauth{Tag: tag, Afid: afid, Uname: uname, Aname: aname}, nil
}

func unpackRauth(tag uint16, body []byte) (Rauth, error) {
	qid, n, ok := unpackQid(body)
	if !ok {
		return Rauth{}, ErrBadSize
	}
	if n != len(body) {
		return Rauth{}, ErrBadSize
	}
	return Rauth{Tag: tag, Aqid: qid}, nil
}

func unpackTattach(tag uint16, body []byte) (Tattach, error) {
	fid, n, ok := getUint32(body)
	if !ok {
		return Tattach{}, ErrBadSize
	}
	body = body[n:]
	afid, n, ok := getUint32(body)
	if !ok {
		return Tattach{}, ErrBadSize
	}
	body = body[n:]
	uname, n, ok := getString(body)
	if !ok || len(uname) > MaxUidLen {
		return Tattach{}, ErrLongString
	}
	body = body[n:]
	aname, n, ok := getString(body)
	if !ok || len(aname) > MaxAttachLen {
		return Tattach{}, ErrLongString
	}
	body = body[n:]
	if len(body) != 0 {
		return Tattach{}, ErrBadSize
	}
	return Tattach{Tag: tag, Fid: fid, Afid: afid, Uname: uname, Aname: aname}, nil
}

func unpackRattach(tag uint16, body []byte) (Rattach, error) {
	qid, n, ok := unpackQid(body)
	if !ok || n != len(body) {
		return Rattach{}, ErrBadSize
	}
	return Rattach{Tag: tag, Qid: qid}, nil
}

func unpackRerror(tag uint16, body []byte) (Rerror, error) {
	ename, n, ok := getString(body)
	if !ok || len(ename) > MaxErrorLen {
		return Rerror{}, ErrLongString
	}
	if n != len(body) {
		return Rerror{}, ErrBadSize
	}
	return Rerror{Tag: tag, Ename: ename}, nil
}

func unpackTflush(tag uint16, body []byte) (Tflush, error) {
	oldtag, n, ok := getUint16(body)
	if !ok || n != len(body) {
		return Tflush{}, ErrBadSize
	}
	return Tflush{Tag: tag, Oldtag: oldtag}, nil
}

func unpackTwalk(tag uint16, body []byte) (Twalk, error) {
	fid, n, ok := getUint32(body)
	if !ok {
		return Twalk{}, ErrBadSize
	}
	body = body[n:]
	newfid, n, ok := getUint32(body)
	if !ok {
		return Twalk{}, ErrBadSize
	}
	body = body[n:]
	nwname, n, ok := getUint16(body)
	if !ok {
		return Twalk{}, ErrBadSize
	}
	body = body[n:]
	if nwname > MaxWElem {
		return Twalk{}, ErrTooManyWalkElems
	}
	var wname []string
	if nwname > 0 {
		wname = make([]string, 0, nwname)
	}
	for i := uint16(0); i < nwname; i++ {
		s, n, ok := getString(body)
		if !ok || len(s) > MaxFilenameLen {
			return Twalk{}, ErrLongString
		}
		body = body[n:]
		wname = append(wname, s)
	}
	if len(body) != 0 {
		return Twalk{}, ErrBadSize
	}
	return Twalk{Tag: tag, Fid: fid, Newfid: newfid, Wname: wname}, nil
}

func unpackRwalk(tag uint16, body []byte) (Rwalk, error) {
	nwqid, n, ok := getUint16(body)
	if !ok {
		return Rwalk{}, ErrBadSize
	}
	body = body[n:]
	if nwqid > MaxWElem {
		return Rwalk{}, ErrTooManyWalkElems
	}
	var wqid []Qid
	if nwqid > 0 {
		wqid = make([]Qid, 0, nwqid)
	}
	for i := uint16(0); i < nwqid; i++ {
		q, n, ok := unpackQid(body)
		if !ok {
			return Rwalk{}, ErrShortBuffer
		}
		body = body[n:]
		wqid = append(wqid, q)
	}
	if len(body) != 0 {
		return Rwalk{}, ErrBadSize
	}
	return Rwalk{Tag: tag, Wqid: wqid}, nil
}

func unpackTopen(tag uint16, body []byte) (Topen, error) {
	fid, n, ok := getUint32(body)
	if !ok {
		return Topen{}, ErrBadSize
	}
	body = body[n:]
	mode, n, ok := getUint8(body)
	if !ok || n != len(body) {
		return Topen{}, ErrBadSize
	}
	return Topen{Tag: tag, Fid: fid, Mode: mode}, nil
}

func unpackRopen(tag uint16, body []byte) (Ropen, error) {
	qid, n, ok := unpackQid(body)
	if !ok {
		return Ropen{}, ErrBadSize
	}
	body = body[n:]
	iounit, n, ok := getUint32(body)
	if !ok || n != len(body) {
		return Ropen{}, ErrBadSize
	}
	return Ropen{Tag: tag, Qid: qid, IOunit: iounit}, nil
}

func unpackTcreate(tag uint16, body []byte) (Tcreate, error) {
	fid, n, ok := getUint32(body)
	if !ok {
		return Tcreate{}, ErrBadSize
	}
	body = body[n:]
	name, n, ok := getString(body)
	if !ok || len(name) > MaxFilenameLen {
		return Tcreate{}, ErrLongString
	}
	body = body[n:]
	perm, n, ok := getUint32(body)
	if !ok {
		return Tcreate{}, ErrBadSize
	}
	body = body[n:]
	mode, n, ok := getUint8(body)
	if !ok || n != len(body) {
		return Tcreate{}, ErrBadSize
	}
	return Tcreate{Tag: tag, Fid: fid, Name: name, Perm: perm, Mode: mode}, nil
}

func unpackRcreate(tag uint16, body []byte) (Rcreate, error) {
	qid, n, ok := unpackQid(body)
	if !ok {
		return Rcreate{}, ErrBadSize
	}
	body = body[n:]
	iounit, n, ok := getUint32(body)
	if !ok || n != len(body) {
		return Rcreate{}, ErrBadSize
	}
	return Rcreate{Tag: tag, Qid: qid, IOunit: iounit}, nil
}

func unpackTread(tag uint16, body []byte) (Tread, error) {
	fid, n, ok := getUint32(body)
	if !ok {
		return Tread{}, ErrBadSize
	}
	body = body[n:]
	offset, n, ok := getUint64(body)
	if !ok {
		return Tread{}, ErrBadSize
	}
	body = body[n:]
	count, n, ok := getUint32(body)
	if !ok || n != len(body) {
		return Tread{}, ErrBadSize
	}
	return Tread{Tag: tag, Fid: fid, Offset: offset, Count: count}, nil
}

func unpackRread(tag uint16, body []byte) (Rread, error) {
	count, n, ok := getUint32(body)
	if !ok {
		return Rread{}, ErrBadSize
	}
	body = body[n:]
	if int(count) != len(body) {
		return Rread{}, ErrBadSize
	}
	var data []byte
	if len(body) > 0 {
		data = make([]byte, len(body))
		copy(data, body)
	}
	return Rread{Tag: tag, Data: data}, nil
}

func unpackTwrite(tag uint16, body []byte) (Twrite, error) {
	fid, n, ok := getUint32(body)
	if !ok {
		return Twrite{}, ErrBadSize
	}
	body = body[n:]
	offset, n, ok := getUint64(body)
	if !ok {
		return Twrite{}, ErrBadSize
	}
	body = body[n:]
	count, n, ok := getUint32(body)
	if !ok {
		return Twrite{}, ErrBadSize
	}
	body = body[n:]
	if int(count) != len(body) {
		return Twrite{}, ErrBadSize
	}
	var data []byte
	if len(body) > 0 {
		data = make([]byte, len(body))
		copy(data, body)
	}
	return Twrite{Tag: tag, Fid: fid, Offset: offset, Data: data}, nil
}

func unpackRwrite(tag uint16, body []byte) (Rwrite, error) {
	count, n, ok := getUint32(body)
	if !ok || n != len(body) {
		return Rwrite{}, ErrBadSize
	}
	return Rwrite{Tag: tag, Count: count}, nil
}

func unpackTclunk(tag uint16, body []byte) (Tclunk, error) {
	fid, n, ok := getUint32(body)
	if !ok || n != len(body) {
		return Tclunk{}, ErrBadSize
	}
	return Tclunk{Tag: tag, Fid: fid}, nil
}

func unpackTremove(tag uint16, body []byte) (Tremove, error) {
	fid, n, ok := getUint32(body)
	if !ok || n != len(body) {
		return Tremove{}, ErrBadSize
	}
	return Tremove{Tag: tag, Fid: fid}, nil
}

func unpackTstat(tag uint16, body []byte) (Tstat, error) {
	fid, n, ok := getUint32(body)
	if !ok || n != len(body) {
		return Tstat{}, ErrBadSize
	}
	return Tstat{Tag: tag, Fid: fid}, nil
}

func unpackRstat(tag uint16, body []byte) (Rstat, error) {
	st, n, err := UnpackStat(body)
	if err != nil {
		return Rstat{}, err
	}
	if n != len(body) {
		return Rstat{}, ErrBadSize
	}
	return Rstat{Tag: tag, Stat: st}, nil
}

func unpackTwstat(tag uint16, body []byte) (Twstat, error) {
	fid, n, ok := getUint32(body)
	if !ok {
		return Twstat{}, ErrBadSize
	}
	body = body[n:]
	st, n, err := UnpackStat(body)
	if err != nil {
		return Twstat{}, err
	}
	if n != len(body) {
		return Twstat{}, ErrBadSize
	}
	return Twstat{Tag: tag, Fid: fid, Stat: st}, nil
}
