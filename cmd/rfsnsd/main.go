// Command rfsnsd is a minimal demo daemon built on the rfs9 library:
// it starts a Namespace, mounts whatever the command line asks for,
// and blocks until interrupted. It exists to give the
// library a concrete consumer program, per spec §1; the daemon itself
// carries no logic beyond flag parsing and signal handling.
package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"aqwari.net/net/rfs9"
	"aqwari.net/net/rfs9/internal/rfslog"
)

var (
	rendezvousDir string
	msize         uint32
	uname         string
	verbose       bool
	syslogTag     string

	mountAddr string
	mountOld  string
	mountName string
)

func main() {
	root := &cobra.Command{
		Use:          "rfsnsd",
		Short:        "run a process-wide 9P client namespace",
		SilenceUsage: true,
		RunE:         run,
	}
	flags := root.Flags()
	flags.StringVar(&rendezvousDir, "rendezvous-dir", "", "directory for the rendezvous socket (default os.TempDir())")
	flags.Uint32Var(&msize, "msize", 0, "Tversion msize to propose (default transport.DefaultMsize)")
	flags.StringVar(&uname, "uname", "", "uname to present at Tattach (default current OS user)")
	flags.BoolVar(&verbose, "verbose", false, "log at debug level to standard error")
	flags.StringVar(&syslogTag, "syslog", "", "send log output to the local syslog daemon under this tag, instead of standard error")
	flags.StringVar(&mountAddr, "mount", "", "tcp address of a 9P server to mount at startup")
	flags.StringVar(&mountOld, "mount-point", "/", "namespace path to mount --mount under")
	flags.StringVar(&mountName, "aname", "", "attach name to request from --mount")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	var logger rfslog.Logger
	switch {
	case syslogTag != "":
		l, err := rfslog.NewSyslog(syslogTag)
		if err != nil {
			return fmt.Errorf("syslog: %w", err)
		}
		logger = l
	case verbose:
		logger = rfslog.New(os.Stderr, true)
	default:
		logger = rfslog.Discard
	}

	ns, err := rfs9.Init(rfs9.Config{
		RendezvousDir: rendezvousDir,
		Msize:         msize,
		Uname:         uname,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("init namespace: %w", err)
	}
	defer ns.Deinit()

	if mountAddr != "" {
		conn, err := net.Dial("tcp", mountAddr)
		if err != nil {
			return fmt.Errorf("dial %s: %w", mountAddr, err)
		}
		if err := ns.Mount(conn, rfs9.NoFid, mountOld, rfs9.MREPL, mountName); err != nil {
			conn.Close()
			return fmt.Errorf("mount %s at %s: %w", mountAddr, mountOld, err)
		}
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}
