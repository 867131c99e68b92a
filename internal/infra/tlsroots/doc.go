// Package tlsroots builds the trust settings for HTTPS backends.
//
// The system roots are used by default. A PEM file or directory of
// certificates can be added for backends signed by a private CA.
package tlsroots
