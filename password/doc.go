// Package password implements credential hashing and verification with
// Argon2id defaults.
//
// Hashes are encoded in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// The gate only ever calls [Hasher.Verify]; Hash and NeedsRehash exist for
// host services that own account creation and opportunistic hash upgrades
// on login. This package stores nothing, imports no other sessiongate
// package, and never logs plaintext.
package password
