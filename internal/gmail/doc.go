// Package gmail provides a Gmail client for searching and reading messages,
// sending plain text or HTML mail and saving attachments to disk.
//
// Messages are sent as RFC 2822 documents; non-ASCII subjects are encoded
// per RFC 2047. The account's primary send-as signature is appended to
// outgoing bodies when one is configured.
package gmail
