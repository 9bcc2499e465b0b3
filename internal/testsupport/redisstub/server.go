// Package redisstub provides a tiny in-process Redis server speaking RESP2 for tests.
// It implements the string, set, expiry and transaction commands the session storage uses and behaves like a
// server prior to 7.0: HELLO is unknown and EXPIRE accepts no options.
package redisstub

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"
)

type status string

type failure string

type nilBulk struct{}

type entry struct {
	value   string
	members map[string]struct{}
	expires time.Time
}

// Server represents a running stub server
type Server struct {
	listener net.Listener
	closed   chan struct{}

	mu     sync.Mutex
	data   map[string]*entry
	offset time.Duration
}

// Start starts a new stub server listening on a random local port
func Start() (*Server, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	server := &Server{
		listener: listener,
		closed:   make(chan struct{}),
		data:     make(map[string]*entry),
	}
	go server.serve()
	return server, nil
}

// Addr returns the address the server listens on
func (server *Server) Addr() string {
	return server.listener.Addr().String()
}

// Close stops accepting connections
func (server *Server) Close() error {
	select {
	case <-server.closed:
		return nil
	default:
	}
	close(server.closed)
	return server.listener.Close()
}

// Advance moves the server's clock forward, expiring keys accordingly
func (server *Server) Advance(d time.Duration) {
	server.mu.Lock()
	defer server.mu.Unlock()
	server.offset += d
}

// Exists reports whether the given key exists and is not expired
func (server *Server) Exists(key string) bool {
	server.mu.Lock()
	defer server.mu.Unlock()
	return server.lookup(key) != nil
}

// TTL returns the remaining lifetime of a key.
// It returns -1 for keys without expiry and -2 for missing keys, like the TTL command does.
func (server *Server) TTL(key string) time.Duration {
	server.mu.Lock()
	defer server.mu.Unlock()
	return server.ttl(key)
}

func (server *Server) now() time.Time {
	return time.Now().Add(server.offset)
}

func (server *Server) serve() {
	for {
		conn, err := server.listener.Accept()
		if err != nil {
			select {
			case <-server.closed:
				return
			default:
			}
			continue
		}
		go server.handleConnection(conn)
	}
}

func (server *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	reader := bufio.NewReader(conn)
	writer := bufio.NewWriter(conn)

	var queued [][]string
	inTx := false
	aborted := false
	for {
		args, err := readCommand(reader)
		if err != nil {
			return
		}
		var reply any
		switch name := strings.ToUpper(args[0]); {
		case name == "MULTI":
			inTx, aborted, queued = true, false, nil
			reply = status("OK")
		case name == "DISCARD":
			inTx, aborted, queued = false, false, nil
			reply = status("OK")
		case name == "EXEC":
			switch {
			case !inTx:
				reply = failure("ERR EXEC without MULTI")
			case aborted:
				reply = failure("EXECABORT Transaction discarded because of previous errors.")
			default:
				replies := make([]any, 0, len(queued))
				server.mu.Lock()
				for _, cmd := range queued {
					replies = append(replies, server.execute(cmd))
				}
				server.mu.Unlock()
				reply = replies
			}
			inTx, aborted, queued = false, false, nil
		case inTx:
			if msg := validate(args); msg != "" {
				aborted = true
				reply = failure(msg)
			} else {
				queued = append(queued, args)
				reply = status("QUEUED")
			}
		default:
			if msg := validate(args); msg != "" {
				reply = failure(msg)
			} else {
				server.mu.Lock()
				reply = server.execute(args)
				server.mu.Unlock()
			}
		}
		if err := writeReply(writer, reply); err != nil {
			return
		}
		if err := writer.Flush(); err != nil {
			return
		}
	}
}

// validate checks the arity of a command the way the server does when queueing it
func validate(args []string) string {
	name := strings.ToLower(args[0])
	wrongArity := "ERR wrong number of arguments for '" + name + "' command"
	switch name {
	case "ping", "client", "select", "watch", "unwatch":
		return ""
	case "get", "ttl", "pttl", "smembers":
		if len(args) != 2 {
			return wrongArity
		}
	case "set":
		if len(args) != 3 && len(args) != 5 {
			return wrongArity
		}
	case "del":
		if len(args) < 2 {
			return wrongArity
		}
	case "sadd", "srem":
		if len(args) < 3 {
			return wrongArity
		}
	case "expire", "pexpire":
		if len(args) != 3 {
			return wrongArity
		}
	default:
		return "ERR unknown command '" + args[0] + "'"
	}
	return ""
}

func (server *Server) execute(args []string) any {
	switch strings.ToUpper(args[0]) {
	case "PING":
		return status("PONG")
	case "CLIENT", "SELECT", "WATCH", "UNWATCH":
		return status("OK")
	case "GET":
		current := server.lookup(args[1])
		if current == nil {
			return nilBulk{}
		}
		if current.members != nil {
			return failure("WRONGTYPE Operation against a key holding the wrong kind of value")
		}
		return current.value
	case "SET":
		created := &entry{value: args[2]}
		if len(args) == 5 {
			amount, err := strconv.ParseInt(args[4], 10, 64)
			if err != nil || amount <= 0 {
				return failure("ERR invalid expire time in 'set' command")
			}
			switch strings.ToUpper(args[3]) {
			case "EX":
				created.expires = server.now().Add(time.Duration(amount) * time.Second)
			case "PX":
				created.expires = server.now().Add(time.Duration(amount) * time.Millisecond)
			default:
				return failure("ERR syntax error")
			}
		}
		server.data[args[1]] = created
		return status("OK")
	case "DEL":
		var deleted int64
		for _, key := range args[1:] {
			if server.lookup(key) != nil {
				delete(server.data, key)
				deleted++
			}
		}
		return deleted
	case "SADD":
		current := server.lookup(args[1])
		if current == nil {
			current = &entry{members: make(map[string]struct{})}
			server.data[args[1]] = current
		}
		if current.members == nil {
			return failure("WRONGTYPE Operation against a key holding the wrong kind of value")
		}
		var added int64
		for _, member := range args[2:] {
			if _, ok := current.members[member]; !ok {
				current.members[member] = struct{}{}
				added++
			}
		}
		return added
	case "SREM":
		current := server.lookup(args[1])
		if current == nil || current.members == nil {
			return int64(0)
		}
		var removed int64
		for _, member := range args[2:] {
			if _, ok := current.members[member]; ok {
				delete(current.members, member)
				removed++
			}
		}
		if len(current.members) == 0 {
			delete(server.data, args[1])
		}
		return removed
	case "SMEMBERS":
		current := server.lookup(args[1])
		members := []string{}
		if current != nil {
			for member := range current.members {
				members = append(members, member)
			}
		}
		return members
	case "EXPIRE", "PEXPIRE":
		amount, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			return failure("ERR value is not an integer or out of range")
		}
		current := server.lookup(args[1])
		if current == nil {
			return int64(0)
		}
		unit := time.Second
		if strings.EqualFold(args[0], "PEXPIRE") {
			unit = time.Millisecond
		}
		current.expires = server.now().Add(time.Duration(amount) * unit)
		return int64(1)
	case "TTL":
		ttl := server.ttl(args[1])
		if ttl < 0 {
			return int64(ttl)
		}
		return int64(ttl / time.Second)
	case "PTTL":
		ttl := server.ttl(args[1])
		if ttl < 0 {
			return int64(ttl)
		}
		return int64(ttl / time.Millisecond)
	}
	return failure("ERR unknown command '" + args[0] + "'")
}

func (server *Server) lookup(key string) *entry {
	current, ok := server.data[key]
	if !ok {
		return nil
	}
	if !current.expires.IsZero() && !server.now().Before(current.expires) {
		delete(server.data, key)
		return nil
	}
	return current
}

func (server *Server) ttl(key string) time.Duration {
	current := server.lookup(key)
	switch {
	case current == nil:
		return -2
	case current.expires.IsZero():
		return -1
	default:
		return current.expires.Sub(server.now())
	}
}

func readCommand(reader *bufio.Reader) ([]string, error) {
	line, err := readLine(reader)
	if err != nil {
		return nil, err
	}
	if len(line) == 0 || line[0] != '*' {
		return nil, fmt.Errorf("unexpected request line %q", line)
	}
	n, err := strconv.Atoi(line[1:])
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("invalid array length %q", line)
	}

	args := make([]string, 0, n)
	for i := 0; i < n; i++ {
		header, err := readLine(reader)
		if err != nil {
			return nil, err
		}
		if len(header) == 0 || header[0] != '$' {
			return nil, fmt.Errorf("unexpected bulk header %q", header)
		}
		size, err := strconv.Atoi(header[1:])
		if err != nil || size < 0 {
			return nil, fmt.Errorf("invalid bulk length %q", header)
		}
		buf := make([]byte, size+2)
		if _, err := io.ReadFull(reader, buf); err != nil {
			return nil, err
		}
		args = append(args, string(buf[:size]))
	}
	return args, nil
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(line, "\r\n"), nil
}

func writeReply(writer *bufio.Writer, reply any) error {
	var err error
	switch value := reply.(type) {
	case status:
		_, err = fmt.Fprintf(writer, "+%s\r\n", value)
	case failure:
		_, err = fmt.Fprintf(writer, "-%s\r\n", value)
	case nilBulk:
		_, err = writer.WriteString("$-1\r\n")
	case int64:
		_, err = fmt.Fprintf(writer, ":%d\r\n", value)
	case string:
		_, err = fmt.Fprintf(writer, "$%d\r\n%s\r\n", len(value), value)
	case []string:
		if _, err = fmt.Fprintf(writer, "*%d\r\n", len(value)); err != nil {
			return err
		}
		for _, item := range value {
			if err := writeReply(writer, item); err != nil {
				return err
			}
		}
	case []any:
		if _, err = fmt.Fprintf(writer, "*%d\r\n", len(value)); err != nil {
			return err
		}
		for _, item := range value {
			if err := writeReply(writer, item); err != nil {
				return err
			}
		}
	default:
		err = errors.New("unsupported reply type")
	}
	return err
}
