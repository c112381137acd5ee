package antlr4

import (
	"encoding/binary"
	"errors"
	"net"
	"os"
	"os/exec"
	"strconv"
	"syscall"
	"time"
)

// Protocol bytes and request bits for the unix-socket fuzzing oracle. A
// client sends AreYouAlive to probe liveness before paying the cost of a
// full request; the server never initiates.
const (
	AreYouAlive  byte = 213
	YesIAmAlive  byte = 42
	CrossoverBit byte = 0b00000001
	MutateBit    byte = 0b00000010
	LexBit       byte = 0b00000100
)

// maxLexTokens bounds how many tokens HandleRequest will report for one
// LexBit request, so an adversarial input (or a grammar with no EOF-only
// rule) cannot make the server buffer an unbounded response.
const maxLexTokens = 1 << 20

func readAll(conn net.Conn, data []byte) bool {
	offset := 0
	for offset < len(data) {
		n, err := conn.Read(data[offset:])
		if err != nil {
			return false
		}
		offset += n
	}
	return true
}

func writeAll(conn net.Conn, data []byte) bool {
	offset := 0
	for offset < len(data) {
		n, err := conn.Write(data[offset:])
		if err != nil {
			return false
		}
		offset += n
	}
	return true
}

// Oracle lexes fuzzer-supplied input against a single shared Atn, reusing
// one SharedLexerAtn (and its warm DFA cache) across every connection
// rather than rebuilding it per request.
type Oracle struct {
	shared *SharedLexerAtn
}

// NewOracle returns an oracle serving atn.
func NewOracle(atn *Atn) *Oracle {
	return &Oracle{shared: NewSharedLexerAtn(atn)}
}

// NewOracleFromShared returns an oracle serving an already-built shared
// lexer state, for callers that warm-started its Dfas from a cache file.
func NewOracleFromShared(shared *SharedLexerAtn) *Oracle {
	return &Oracle{shared: shared}
}

// Shared exposes the oracle's lexer state so a caller can persist its
// Dfas (see SaveDfaCache) before the process exits.
func (o *Oracle) Shared() *SharedLexerAtn {
	return o.shared
}

// TokenSummary is the wire shape of one emitted token in a LexBit response.
type TokenSummary struct {
	Type    int32
	Channel int32
	Start   int32
	Stop    int32
}

// lex tokenizes text in mode using a disposable BaseLexer bound to the
// oracle's shared Atn, answering every semantic predicate true (an
// external fuzzer supplies raw bytes, not grammar-aware answers).
func (o *Oracle) lex(text string, mode int) []TokenSummary {
	lexer := NewBaseLexer(o.shared, NewRuneStream(text))
	lexer.mode = mode

	var tokens []TokenSummary
	for len(tokens) < maxLexTokens {
		tok := lexer.NextToken()
		if tok.IsEOF() {
			break
		}
		tokens = append(tokens, TokenSummary{
			Type:    int32(tok.Type),
			Channel: int32(tok.Channel),
			Start:   int32(tok.Start),
			Stop:    int32(tok.Stop),
		})
	}
	return tokens
}

// HandleRequest serves one connection to completion: liveness handshake,
// optional crossover/mutate of the supplied bytes, then either returns
// the mutated/crossed-over bytes or (if LexBit is set) lexes them and
// returns a token summary instead.
func (o *Oracle) HandleRequest(conn net.Conn, timeout int) {
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(time.Duration(timeout) * time.Millisecond))

	buf := make([]byte, 8)
	var result []byte

	if ok := readAll(conn, buf[:1]); !ok || buf[0] != AreYouAlive {
		return
	}
	if !writeAll(conn, []byte{YesIAmAlive}) {
		return
	}

	if !readAll(conn, buf[:5]) {
		return
	}
	wanted := buf[0]
	nBytes := int(binary.BigEndian.Uint32(buf[1:]))
	data1 := make([]byte, nBytes)
	if !readAll(conn, data1) {
		return
	}
	result = data1

	if wanted&CrossoverBit > 0 {
		if !readAll(conn, buf[:4]) {
			return
		}
		nBytes = int(binary.BigEndian.Uint32(buf[:4]))
		data2 := make([]byte, nBytes)
		if !readAll(conn, data2) {
			return
		}
		if !readAll(conn, buf[:8]) {
			return
		}
		result = Crossover(data1, data2, int64(binary.BigEndian.Uint64(buf[:8])))
	}

	if wanted&MutateBit > 0 {
		if !readAll(conn, buf[:8]) {
			return
		}
		result = Mutate(result, int64(binary.BigEndian.Uint64(buf[:8])))
	}

	if wanted&LexBit > 0 {
		if !readAll(conn, buf[:4]) {
			return
		}
		mode := int(binary.BigEndian.Uint32(buf[:4]))

		tokens := o.lex(string(result), mode)
		binary.BigEndian.PutUint32(buf[:4], uint32(len(tokens)))
		if !writeAll(conn, buf[:4]) {
			return
		}
		wire := make([]byte, 16*len(tokens))
		for i, tok := range tokens {
			binary.BigEndian.PutUint32(wire[i*16:], uint32(tok.Type))
			binary.BigEndian.PutUint32(wire[i*16+4:], uint32(tok.Channel))
			binary.BigEndian.PutUint32(wire[i*16+8:], uint32(tok.Start))
			binary.BigEndian.PutUint32(wire[i*16+12:], uint32(tok.Stop))
		}
		writeAll(conn, wire)
		return
	}

	if wanted&CrossoverBit > 0 || wanted&MutateBit > 0 {
		binary.BigEndian.PutUint32(buf[:4], uint32(len(result)))
		if !writeAll(conn, buf[:4]) {
			return
		}
		writeAll(conn, result)
	}
}

// InitServerProcess isolates the process into its own session, kills any
// stale server still holding pidFile (after confirming it is actually
// unresponsive on socketFile), and records this process's PID.
func InitServerProcess(pidFile, socketFile string) {
	syscall.Setsid()

	if _, err := os.Stat(pidFile); err == nil {
		buf := make([]byte, 1)
		conn, dialErr := net.Dial("unix", socketFile)
		if dialErr == nil {
			conn.SetDeadline(time.Now().Add(10 * time.Millisecond))
			if writeAll(conn, []byte{AreYouAlive}) {
				if readAll(conn, buf) && buf[0] == YesIAmAlive {
					conn.Close()
					os.Exit(0)
				}
			}
			conn.Close()
		}

		data, readErr := os.ReadFile(pidFile)
		if readErr != nil {
			panic(readErr)
		}
		pid, convErr := strconv.Atoi(string(data))
		if convErr != nil {
			panic(convErr)
		}
		syscall.Kill(pid, syscall.SIGKILL)
	} else if !errors.Is(err, os.ErrNotExist) {
		panic(err)
	}

	os.WriteFile(pidFile, []byte(strconv.Itoa(os.Getpid())), 0644)
}

// SendRequest drives one oracle request from the client side. On a
// transport failure after the handshake succeeded, it returns true
// (treat it as a dropped/timed-out attempt, not a dead server) with
// encoded/lexed left unset; a false return means the handshake itself
// failed and the caller should consider the server down.
func SendRequest(socketFile string, timeout int, data1, data2 []byte, wanted byte, seedCrossover, seedMutation uint64, mode int, encoded *[]byte, lexed *[]TokenSummary) bool {
	buf := make([]byte, 8)

	conn, err := net.Dial("unix", socketFile)
	if err != nil {
		return false
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(time.Duration(timeout) * time.Millisecond))

	if !writeAll(conn, []byte{AreYouAlive}) {
		return false
	}
	if ok := readAll(conn, buf[:1]); !ok || buf[0] != YesIAmAlive {
		return false
	}

	buf[0] = wanted
	binary.BigEndian.PutUint32(buf[1:5], uint32(len(data1)))
	if !writeAll(conn, buf[:5]) {
		return true
	}
	if !writeAll(conn, data1) {
		return true
	}

	if wanted&CrossoverBit > 0 {
		binary.BigEndian.PutUint32(buf[:4], uint32(len(data2)))
		if !writeAll(conn, buf[:4]) {
			return true
		}
		if !writeAll(conn, data2) {
			return true
		}
		binary.BigEndian.PutUint64(buf[:8], seedCrossover)
		if !writeAll(conn, buf[:8]) {
			return true
		}
	}

	if wanted&MutateBit > 0 {
		binary.BigEndian.PutUint64(buf[:8], seedMutation)
		if !writeAll(conn, buf[:8]) {
			return true
		}
	}

	if wanted&LexBit > 0 {
		binary.BigEndian.PutUint32(buf[:4], uint32(mode))
		if !writeAll(conn, buf[:4]) {
			return true
		}
		if !readAll(conn, buf[:4]) {
			return true
		}
		count := int(binary.BigEndian.Uint32(buf[:4]))
		wire := make([]byte, 16*count)
		if !readAll(conn, wire) {
			return true
		}
		*lexed = make([]TokenSummary, count)
		for i := range *lexed {
			(*lexed)[i] = TokenSummary{
				Type:    int32(binary.BigEndian.Uint32(wire[i*16:])),
				Channel: int32(binary.BigEndian.Uint32(wire[i*16+4:])),
				Start:   int32(binary.BigEndian.Uint32(wire[i*16+8:])),
				Stop:    int32(binary.BigEndian.Uint32(wire[i*16+12:])),
			}
		}
		return true
	}

	if wanted&CrossoverBit > 0 || wanted&MutateBit > 0 {
		if !readAll(conn, buf[:4]) {
			return true
		}
		nBytes := int(binary.BigEndian.Uint32(buf[:4]))
		*encoded = make([]byte, nBytes)
		if !readAll(conn, *encoded) {
			return true
		}
	}
	return true
}

// RestartServer starts serverBin unless another process already holds
// lockFile's advisory lock (i.e. a server is already running or starting).
func RestartServer(lockFile, serverBin string) {
	var file *os.File
	if _, err := os.Stat(lockFile); errors.Is(err, os.ErrNotExist) {
		f, createErr := os.Create(lockFile)
		if createErr != nil {
			return
		}
		file = f
		defer file.Close()
	} else if err != nil {
		return
	} else {
		f, openErr := os.OpenFile(lockFile, os.O_RDWR, 0644)
		if openErr != nil {
			return
		}
		file = f
		defer file.Close()
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err == nil {
		defer syscall.Flock(int(file.Fd()), syscall.LOCK_UN)
		exec.Command(serverBin).Start()
	}
}
