// Package protocol implements the radio feed's text protocol: classifying
// inbound frames into events and deriving the client's outbound replies.
//
// The feed multiplexes several message shapes over one text channel without an
// envelope tag, so [Classify] tries each known shape in a fixed order:
//
//  1. the literal "ping"
//  2. a song-info JSON object
//  3. a welcome, either "welcome:<id>" or {"message":"welcome","id":<id>}
//
// Anything else is returned as [domain.Unknown] with the raw text intact.
package protocol
