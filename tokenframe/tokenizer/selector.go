package tokenizer

import (
	"fmt"
	"strings"
)

const (
	// SpecPrefix marks a spec string that names a strategy instead of a regex.
	SpecPrefix = "tokenize"

	TagElasticsearch = "elasticsearch"
	TagWordPiece     = "wordpiece"
)

// Parse turns a spec string into a Config. It never fails: a spec of the
// form "tokenize:<tag>:<payload>" with a known tag selects that strategy,
// anything else (unknown tags included) is used verbatim as a delimiter regex.
//
//	"[,;]"                                        pattern "[,;]"
//	"tokenize:elasticsearch:http://h/a?analyzer=x" remote http://h/a, analyzer x
//	"tokenize:wordpiece:/models/bert?lowercase=true"
//	"tokenize:unknown:foo"                        pattern "tokenize:unknown:foo"
func Parse(spec string) Config {
	if strings.HasPrefix(spec, SpecPrefix+":") {
		if parts := splitMax(spec, ":", 3); len(parts) == 3 {
			switch parts[1] {
			case TagElasticsearch:
				endpoint, params := parsePayload(parts[2])
				return Config{
					Kind:     KindRemote,
					Endpoint: endpoint,
					Analyzer: params["analyzer"],
					Params:   params,
				}
			case TagWordPiece:
				path, params := parsePayload(parts[2])
				return Config{
					Kind:      KindWordPiece,
					VocabPath: path,
					Params:    params,
					Lowercase: params["lowercase"] == "true",
				}
			}
		}
	}
	return Config{Kind: KindPattern, Pattern: spec}
}

// New builds the tokenizer described by cfg. MinLength and Lowercase from
// opts take precedence over cfg.
func New(cfg Config, opts ...Option) (Tokenizer, error) {
	o := buildOptions(opts)
	if o.minLength != nil {
		cfg.MinLength = *o.minLength
	}
	if o.lowercase != nil {
		cfg.Lowercase = *o.lowercase
	}

	switch cfg.Kind {
	case KindPattern:
		return NewPattern(cfg.Pattern, cfg.MinLength, cfg.Lowercase)
	case KindRemote:
		return NewRemote(cfg.Endpoint, cfg.Analyzer, cfg.MinLength, opts...), nil
	case KindWordPiece:
		return NewWordPiece(cfg.VocabPath, cfg.Lowercase, cfg.MinLength)
	default:
		return nil, fmt.Errorf("unknown tokenizer kind %s", cfg.Kind)
	}
}

// Select parses spec and builds the matching tokenizer.
func Select(spec string, opts ...Option) (Tokenizer, error) {
	return New(Parse(spec), opts...)
}
