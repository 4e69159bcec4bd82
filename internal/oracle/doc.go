// Package oracle provides the natural-language interpretation and advice
// service backing the assistant. It supports multiple LLM providers behind
// one client interface, with retry logic, rate limiting, and deterministic
// fallbacks where the conversation must be able to continue without a
// working model.
package oracle
