// Package secure keeps retrieved credentials protected in memory between
// the moment the provider hands them over and the moment they are printed
// or injected into a child process.
//
// It wraps memguard: values live in an encrypted enclave (XSalsa20Poly1305),
// the backing pages are mlocked so they cannot be swapped to disk, and guard
// pages surround the plaintext while it is open. A crashed process therefore
// does not leave credentials in core dumps or swap.
//
// Typical lifecycle in this repository:
//
//	buf, err := secure.NewSecureBufferFromString(password)
//	if err != nil {
//	    return err
//	}
//	defer buf.Destroy()
//
//	value, err := buf.RevealString() // at the stdout/env boundary only
//	if err != nil {
//	    return err
//	}
//
// RevealString copies the plaintext into an ordinary Go string, which cannot
// be zeroed afterwards; call it as late as possible. Code that can work with
// bytes should prefer Open and destroy the returned LockedBuffer itself.
//
// Empty values are rejected with ErrEmptyValue (memguard cannot represent a
// zero-length enclave), and a destroyed buffer fails further use with
// ErrDestroyed instead of panicking.
//
// mlock needs RLIMIT_MEMLOCK headroom on Linux; when unavailable, memguard
// degrades to regular memory rather than failing the retrieval.
//
// None of this defends against a root-privileged attacker inspecting the
// live process or against hardware-level attacks; it narrows the window of
// plaintext exposure, nothing more.
package secure
