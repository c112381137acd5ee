package antlr4

const (
	lexerDefaultMode = 0
	lexerMore        = -2
	lexerSkip        = -3
)

// RuleActions lets a generated lexer plug its rule-action and
// semantic-predicate code into a BaseLexer. A nil Actions field is
// equivalent to an implementation whose Sempred always returns true and
// whose Action is a no-op.
type RuleActions interface {
	Action(lexer *BaseLexer, ruleIndex, actionIndex int)
	Sempred(lexer *BaseLexer, ruleIndex, predIndex int, speculative bool) bool
}

// BaseLexer drives one LexerAtnSimulator against an input stream,
// implementing Host so the simulator can reach back into its mutable
// per-token state. Construct with NewBaseLexer, then call NextToken
// repeatedly until it returns an EOF token.
type BaseLexer struct {
	Interpreter *LexerAtnSimulator
	Actions     RuleActions

	input CharStream

	tokenStartCharIndex int
	tokenStartLine      int
	tokenStartColumn    int

	thetype int
	channel int
	text    string
	hasText bool

	hitEOF    bool
	mode      int
	modeStack []int
}

// NewBaseLexer wires a fresh simulator (via shared's SharedLexerAtn) to
// input and returns a lexer ready for NextToken.
func NewBaseLexer(shared *SharedLexerAtn, input CharStream) *BaseLexer {
	lexer := &BaseLexer{input: input, mode: lexerDefaultMode}
	lexer.Interpreter = shared.NewSimulator(lexer)
	return lexer
}

// Reset rewinds the input stream and clears all per-token state, as if
// the lexer had just been constructed.
func (l *BaseLexer) Reset() {
	l.input.Seek(0)
	l.thetype = TokenInvalidType
	l.channel = TokenDefaultChannel
	l.tokenStartCharIndex = -1
	l.tokenStartLine = -1
	l.tokenStartColumn = -1
	l.text = ""
	l.hasText = false
	l.hitEOF = false
	l.mode = lexerDefaultMode
	l.modeStack = nil
}

// GetInputStream returns the stream this lexer reads from.
func (l *BaseLexer) GetInputStream() CharStream {
	return l.input
}

// NextToken matches and returns the next token, skipping over any rules
// that called Skip and restarting (without losing accumulated text) for
// any rule that called More. Returns a TokenEOF token forever once the
// input is exhausted.
func (l *BaseLexer) NextToken() *Token {
	marker := l.input.Mark()
	defer l.input.Release(marker)

	for {
		if l.hitEOF {
			return l.emitEOF()
		}

		l.channel = TokenDefaultChannel
		l.tokenStartCharIndex = l.input.Index()
		l.tokenStartLine = l.Interpreter.Line
		l.tokenStartColumn = l.Interpreter.Column
		l.text = ""
		l.hasText = false

		skip := false
		for {
			l.thetype = TokenInvalidType
			ttype, err := l.Interpreter.Match(l.input, l.mode)
			if err != nil {
				l.recover(err)
				skip = true
				break
			}

			if l.input.La(1) == Eof {
				l.hitEOF = true
			}
			if l.thetype == TokenInvalidType {
				l.thetype = ttype
			}
			if l.thetype == lexerSkip {
				skip = true
				break
			}
			if l.thetype != lexerMore {
				break
			}
		}

		if skip {
			continue
		}
		return l.emit()
	}
}

// emit builds a token spanning tokenStartCharIndex through
// GetCharIndex()-1 inclusive, with the currently accumulated
// type/channel/text.
func (l *BaseLexer) emit() *Token {
	stop := l.GetCharIndex() - 1
	text := l.text
	if !l.hasText {
		text = l.input.GetTextFromInterval(l.tokenStartCharIndex, stop)
	}
	return &Token{
		Type:    l.thetype,
		Channel: l.channel,
		Text:    text,
		Start:   l.tokenStartCharIndex,
		Stop:    stop,
		Line:    l.tokenStartLine,
		Column:  l.tokenStartColumn,
	}
}

func (l *BaseLexer) emitEOF() *Token {
	index := l.input.Index()
	return &Token{
		Type:    TokenEOF,
		Channel: TokenDefaultChannel,
		Text:    "",
		Start:   index,
		Stop:    index - 1,
		Line:    l.Interpreter.Line,
		Column:  l.Interpreter.Column,
	}
}

// recover seeks back to where the failed match started (DFA/ATN steps
// that led nowhere may have already consumed input before the dead end
// was discovered) and skips just the one code point that had no viable
// alternative, the same blunt strategy the reference lexer falls back to:
// a well-formed grammar should not need it.
func (l *BaseLexer) recover(err error) {
	if noViable, ok := err.(*LexerNoViableAltError); ok {
		l.input.Seek(noViable.StartIndex)
	}
	if l.input.La(1) != Eof {
		l.input.Consume()
	}
}

// GetCharIndex returns the input index just past the most recently
// consumed code point.
func (l *BaseLexer) GetCharIndex() int {
	return l.input.Index()
}

// GetText returns any text override set via SetText, or else the raw
// input slice matched so far for the token under construction.
func (l *BaseLexer) GetText() string {
	if l.hasText {
		return l.text
	}
	return l.input.GetTextFromInterval(l.tokenStartCharIndex, l.GetCharIndex()-1)
}

// SetText overrides the text of the token under construction.
func (l *BaseLexer) SetText(text string) {
	l.text = text
	l.hasText = true
}

// Host implementation.

func (l *BaseLexer) SetType(t int)    { l.thetype = t }
func (l *BaseLexer) SetChannel(c int) { l.channel = c }
func (l *BaseLexer) SetMode(m int)    { l.mode = m }

func (l *BaseLexer) PushMode(m int) {
	l.modeStack = append(l.modeStack, l.mode)
	l.mode = m
}

func (l *BaseLexer) PopMode() {
	n := len(l.modeStack)
	if n == 0 {
		panic("antlr4: PopMode with empty mode stack")
	}
	l.mode = l.modeStack[n-1]
	l.modeStack = l.modeStack[:n-1]
}

func (l *BaseLexer) Skip() { l.thetype = lexerSkip }
func (l *BaseLexer) More() { l.thetype = lexerMore }

func (l *BaseLexer) Action(ruleIndex, actionIndex int) {
	if l.Actions != nil {
		l.Actions.Action(l, ruleIndex, actionIndex)
	}
}

func (l *BaseLexer) Sempred(ruleIndex, predIndex int, speculative bool) bool {
	if l.Actions == nil {
		return true
	}
	return l.Actions.Sempred(l, ruleIndex, predIndex, speculative)
}
