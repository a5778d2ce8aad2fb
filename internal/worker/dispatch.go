package worker

import (
	"aqwari.net/net/rfs9/internal/rendezvous"
	"aqwari.net/net/rfs9/internal/rfserr"
	"aqwari.net/net/rfs9/internal/transport"
)

// dispatch services one Descriptor on the worker goroutine, mirroring
// original_source/src/rfs_client_listener.c's rfs__client_on_invoke
// switch over rfs__client_func_type_t, generalized from stub log
// lines into real mount-table mutations and 9P exchanges.
func (w *Worker) dispatch(d *rendezvous.Descriptor) {
	switch d.Kind {
	case rendezvous.KindBind:
		d.Finish(w.table.Bind(d.Bind.New, d.Bind.Old, d.Bind.Flags))
	case rendezvous.KindMount:
		d.Finish(w.doMount(d.Mount))
	case rendezvous.KindUnmount:
		d.Finish(w.doUnmount(d.Unmount))
	case rendezvous.KindShutdown:
		d.Finish(nil)
		waitEchoed(d)
		w.stopOnce.Do(func() { close(w.stopc) })
	default:
		d.Finish(rfserr.Wrap(rfserr.EPROTO, nil, "unknown descriptor kind"))
	}
}

// doMount negotiates Tversion/Tattach over the caller's already-dialed
// transport and records the resulting conversation in the mount
// table, per spec §4.5's MOUNT dispatch.
func (w *Worker) doMount(args rendezvous.MountArgs) error {
	conv, err := transport.Dial(args.Conn.RemoteAddr().String(), args.Conn, w.cfg.Msize, w.log)
	if err != nil {
		return err
	}
	fid, _, err := conv.Attach(w.cfg.Uname, args.Aname, args.Afid)
	if err != nil {
		conv.Close()
		return err
	}
	if err := w.table.Mount(conv, fid, args.Aname, args.Old, args.Flags); err != nil {
		conv.Close()
		return err
	}
	return nil
}

// doUnmount closes the transport of every conversation whose last
// reference is dropped by this unmount. It sends no Tclunk for the
// conversation's root fid; the fid is abandoned with the connection.
func (w *Worker) doUnmount(args rendezvous.UnmountArgs) error {
	torn, err := w.table.Unmount(args.Name, args.Old)
	if err != nil {
		return err
	}
	for _, conv := range torn {
		if cerr := conv.Close(); cerr != nil {
			w.log.Warnf("closing conversation %s after unmount: %v", conv.Server, cerr)
		}
	}
	return nil
}
