package type1

import (
	tk "github.com/benoitkugler/pstokenizer"
)

// lexer wraps pstokenizer.Tokenizer with the two lookahead helpers the
// dict-walking parser needs.
type lexer struct {
	tk.Tokenizer
}

func newLexer(data []byte) lexer {
	return lexer{*tk.NewTokenizer(data)}
}

func (l *lexer) nextToken() (tk.Token, error) {
	return l.Tokenizer.NextToken()
}

func (l lexer) peekToken() tk.Token {
	t, _ := l.Tokenizer.PeekToken()
	return t
}

func (l lexer) peekPeekToken() tk.Token {
	t, _ := l.Tokenizer.PeekPeekToken()
	return t
}
