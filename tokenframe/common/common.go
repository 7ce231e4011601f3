package common

// This package contains shared error types and run metrics used by the
// tokenizer, engine and tokenize packages.
