// Package rfs9 is a client-side library that exposes a process-wide
// remote filesystem namespace built on the Plan 9 9P2000 protocol.
// Application goroutines call Bind, Mount, and Unmount to graft
// remote file trees and local paths into a shared hierarchical name
// space; a single background worker owns every connection, mount
// table mutation, and protocol exchange this involves, and serves
// those calls over a local IPC rendezvous so they stay safe to invoke
// concurrently from anywhere in the process.
package rfs9

import (
	"net"

	"aqwari.net/net/rfs9/internal/platform"
	"aqwari.net/net/rfs9/internal/rendezvous"
	"aqwari.net/net/rfs9/internal/rendezvousclient"
	"aqwari.net/net/rfs9/internal/rfserr"
	"aqwari.net/net/rfs9/internal/worker"
)

// A Namespace is a running worker and the client handle used to reach
// it. It is the explicit handle spec §9's design note calls for in
// place of the original's implicit process-wide singleton.
type Namespace struct {
	w      *worker.Worker
	client *rendezvousclient.Client
}

// Init starts the namespace's worker and blocks until its rendezvous
// endpoint is bindable, per spec §6's init() contract.
func Init(cfg Config) (*Namespace, error) {
	cfg = cfg.withDefaults()

	dir := cfg.RendezvousDir
	if dir == "" {
		dir = platform.DefaultRendezvousDir()
	}
	path := platform.RendezvousPathIn(dir, platform.Pid())

	w, err := worker.Start(worker.Config{
		RendezvousPath: path,
		Msize:          cfg.Msize,
		Uname:          cfg.Uname,
		Logger:         cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &Namespace{
		w:      w,
		client: rendezvousclient.New(w.Addr()),
	}, nil
}

// Deinit submits a shutdown to the worker and returns once it has
// fully stopped, per spec §6's deinit() contract.
func (ns *Namespace) Deinit() error {
	d := rendezvous.NewDescriptor(rendezvous.KindShutdown)
	err := ns.client.Invoke(d)
	ns.w.Stop()
	return err
}

// Bind grafts name new onto whatever old currently resolves to.
// Flags: MREPL (default), MBEFORE, or MAFTER select new's placement
// in old's search order; MCREATE/MCACHE decorate the new source.
func (ns *Namespace) Bind(new, old string, flags int) error {
	d := rendezvous.NewDescriptor(rendezvous.KindBind)
	d.Bind = rendezvous.BindArgs{New: new, Old: old, Flags: flags}
	return ns.client.Invoke(d)
}

// Mount adopts conn, an already-dialed transport to a 9P server, as a
// new source at old. afid is the fid of a prior Tauth exchange, or
// NOFID if the server requires no authentication. aname selects the
// tree the server exports under that name.
func (ns *Namespace) Mount(conn net.Conn, afid uint32, old string, flags int, aname string) error {
	if conn == nil {
		return rfserr.Wrap(rfserr.EBADMSG, nil, "Mount requires a non-nil transport")
	}
	d := rendezvous.NewDescriptor(rendezvous.KindMount)
	d.Mount = rendezvous.MountArgs{Conn: conn, Afid: afid, Old: old, Flags: flags, Aname: aname}
	return ns.client.Invoke(d)
}

// Unmount removes sources at old. If name is empty, every source at
// old is removed; otherwise only the one bound under name is.
func (ns *Namespace) Unmount(name, old string) error {
	d := rendezvous.NewDescriptor(rendezvous.KindUnmount)
	d.Unmount = rendezvous.UnmountArgs{Name: name, Old: old}
	return ns.client.Invoke(d)
}
