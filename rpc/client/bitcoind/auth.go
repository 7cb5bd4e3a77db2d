// Copyright (c) 2026 The simplerpc developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bitcoind

import (
	"bufio"
	"os"
	"strings"

	"github.com/simplerpc/simplerpc/errors"
)

// ErrInvalidCookieFile describes a cookie file without a user:password line.
var ErrInvalidCookieFile = errors.New("invalid cookie file")

// Auth describes how requests are authenticated.  It is implemented only by
// UserPass and CookieFile.
type Auth interface {
	auth()
}

// UserPass authenticates with a fixed username and password.
type UserPass struct {
	User string
	Pass string
}

// CookieFile authenticates with the credentials written by bitcoind to the
// cookie file at this path.  The file is read once, when the client is
// created.
type CookieFile string

func (UserPass) auth()   {}
func (CookieFile) auth() {}

// ResolveAuth returns the username and password described by a.
func ResolveAuth(a Auth) (user, pass string, err error) {
	const op errors.Op = "bitcoind.ResolveAuth"
	switch a := a.(type) {
	case UserPass:
		return a.User, a.Pass, nil
	case CookieFile:
		user, pass, err = readCookie(string(a))
		if err != nil {
			return "", "", errors.E(op, err)
		}
		return user, pass, nil
	default:
		return "", "", errors.E(op, errors.Config, errors.Errorf("unknown auth %T", a))
	}
}

// readCookie reads the first line of the cookie file and splits it at the
// first colon.
func readCookie(path string) (user, pass string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", errors.E(errors.IO, err)
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	if !s.Scan() {
		if err := s.Err(); err != nil {
			return "", "", errors.E(errors.IO, err)
		}
		return "", "", errors.E(errors.Config, ErrInvalidCookieFile)
	}
	user, pass, ok := strings.Cut(s.Text(), ":")
	if !ok {
		return "", "", errors.E(errors.Config, ErrInvalidCookieFile)
	}
	return user, pass, nil
}
