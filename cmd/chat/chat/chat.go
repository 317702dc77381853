// Package chat is a minimal interactive chatroom built on ChronoSync,
// grounded on the original ndn-cpp sample of the same name: every
// participant publishes its own sequence of messages under its own
// prefix, ChronoSync tells everyone else when a new sequence number
// appears, and a plain Interest/Data exchange fetches the actual message
// body.
package chat

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	stdsync "sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ndn-go/corendn/enc"
	"github.com/ndn-go/corendn/face"
	"github.com/ndn-go/corendn/ndn"
	"github.com/ndn-go/corendn/node"
	"github.com/ndn-go/corendn/security/keychain"
	"github.com/ndn-go/corendn/security/signer"
	"github.com/ndn-go/corendn/sync"
)

const pollInterval = 100 * time.Millisecond

// App is one chat participant: a Node polled on a ticker, a ChronoSync
// subscription to the room, and the local store of messages this
// participant has itself published (fetched by peers via Interest/Data).
type App struct {
	network string
	address string
	room    string
	user    string

	n          *node.Node
	cs         *sync.ChronoSync
	selfPrefix enc.Name

	mu       stdsync.Mutex
	messages map[uint64][]byte
}

// CmdChat builds the "chat" cobra command.
func CmdChat() *cobra.Command {
	a := &App{}

	cmd := &cobra.Command{
		Use:     "chat ROOM",
		Short:   "Join an NDN ChronoSync chatroom",
		Long:    "Join a ChronoSync-synchronized chatroom, publishing and receiving lines of text.",
		Args:    cobra.ExactArgs(1),
		Example: `  chat myroom --user alice`,
		RunE:    a.run,
	}

	cmd.Flags().StringVar(&a.network, "network", "unix", `transport to dial: "unix" or "tcp"`)
	cmd.Flags().StringVar(&a.address, "face", "/run/nfd/nfd.sock", "socket path (unix) or host:port (tcp)")
	cmd.Flags().StringVar(&a.user, "user", "guest", "this participant's username, used in its own prefix")
	return cmd
}

func (a *App) String() string { return "chat(" + a.room + ")" }

func (a *App) run(_ *cobra.Command, args []string) error {
	a.room = args[0]
	a.messages = make(map[uint64][]byte)

	var transport face.Transport
	switch a.network {
	case "unix":
		transport = face.NewUnixTransport(a.address)
	case "tcp":
		transport = face.NewTCPTransport(a.address, false)
	default:
		return fmt.Errorf("chat: unsupported --network %q", a.network)
	}

	n, err := node.New(transport, face.ConnectionInfo{Network: a.network, Address: a.address})
	if err != nil {
		return fmt.Errorf("chat: connecting to forwarder: %w", err)
	}
	a.n = n

	syncPrefix, err := enc.ParseName("/ndn/broadcast")
	if err != nil {
		return err
	}
	a.selfPrefix, err = enc.ParseName("/ndn/chat/" + a.room + "/" + a.user)
	if err != nil {
		return err
	}

	kc := keychain.NewMemKeyChain(keychain.TrustEveryone{}, n.CommandInterestGenerator())
	certName, err := enc.ParseName("/chat/" + a.user + "/KEY/self")
	if err != nil {
		return err
	}
	kc.InsertKey(certName, signer.NewSha256Signer())

	n.SetInterestFilter(ndn.InterestFilter{Prefix: a.selfPrefix}, a.onMessageRequested)
	n.RegisterPrefix(a.selfPrefix, nil, func(enc.Name) {
		fmt.Fprintln(os.Stderr, "chat: failed to register own prefix with the forwarder")
	}, node.FlagChildInherit, kc, certName)

	session := uint64(time.Now().UnixNano())
	a.cs = sync.New(n, syncPrefix, a.room, a.selfPrefix, session, nil, a.onSync)

	fmt.Printf("joined room %q as %q; type a line and press enter to publish it\n", a.room, a.user)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)

	lines := make(chan string)
	go a.readStdin(lines)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case line := <-lines:
			a.publish(line)
		case <-ticker.C:
			n.ProcessEvents()
		case <-sigc:
			return nil
		}
	}
}

func (a *App) readStdin(lines chan<- string) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		lines <- scanner.Text()
	}
}

// publish assigns the next sequence number to text, stores it for later
// fetch, and tells ChronoSync about it.
func (a *App) publish(text string) {
	seq := a.cs.PublishNextSequenceNo()
	a.mu.Lock()
	a.messages[seq] = []byte(text)
	a.mu.Unlock()
}

// onMessageRequested serves one of this participant's own previously
// published messages when a peer fetches <selfPrefix>/<seq>.
func (a *App) onMessageRequested(prefix enc.Name, interest *ndn.Interest, _ face.Transport, _ uint64, _ ndn.InterestFilter) {
	suffix := interest.Name.SubName(len(prefix), -1)
	comp, ok := suffix.Get(0)
	if !ok {
		return
	}
	seq, err := strconv.ParseUint(comp.String(), 10, 64)
	if err != nil {
		return
	}
	a.mu.Lock()
	content, known := a.messages[seq]
	a.mu.Unlock()
	if !known {
		return
	}
	a.n.PutData(&ndn.Data{Name: interest.Name, Content: content})
}

// onSync is ChronoSync's callback for every newly observed (producer,
// session, seq): fetch the actual message for each entry that is not our
// own publication.
func (a *App) onSync(states []sync.SyncState, isRecovery bool) {
	for _, s := range states {
		producer, err := enc.ParseName(s.Name)
		if err != nil || producer.Equal(a.selfPrefix) {
			continue
		}
		a.fetchMessage(producer, s.Seqno)
	}
}

func (a *App) fetchMessage(producer enc.Name, seq uint64) {
	name := producer.Append(enc.NewStringComponent(strconv.FormatUint(seq, 10)))
	interest := &ndn.Interest{Name: name, LifetimeMs: 4000}
	_, err := a.n.ExpressInterest(interest, func(_ *ndn.Interest, data *ndn.Data) {
		fmt.Printf("%s: %s\n", producer, string(data.Content))
	}, func(*ndn.Interest) {
		fmt.Fprintf(os.Stderr, "chat: timed out fetching %s\n", name)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "chat: failed to fetch %s: %v\n", name, err)
	}
}
