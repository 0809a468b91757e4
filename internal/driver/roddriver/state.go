package roddriver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/go-rod/rod/lib/proto"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// storageState is the session file layout. It matches the storage state
// files written by Playwright so either driver can reuse the other's login.
type storageState struct {
	Cookies []stateCookie `json:"cookies"`
	Origins []stateOrigin `json:"origins"`
}

type stateCookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

type stateOrigin struct {
	Origin       string      `json:"origin"`
	LocalStorage []nameValue `json:"localStorage"`
}

type nameValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

const readLocalStorageJS = `() => {
	const out = [];
	for (let i = 0; i < localStorage.length; i++) {
		const k = localStorage.key(i);
		out.push({name: k, value: localStorage.getItem(k)});
	}
	return {origin: location.origin, localStorage: out};
}`

const writeLocalStorageJS = `(items) => {
	for (const it of items) localStorage.setItem(it.name, it.value);
}`

// SaveState writes cookies and the current origin's localStorage to path.
func (d *Document) SaveState(ctx context.Context, path string) error {
	p := d.page.Context(ctx)
	cookies, err := p.Cookies(nil)
	if err != nil {
		return fmt.Errorf("read cookies: %w", err)
	}
	st := storageState{Cookies: fromNetworkCookies(cookies), Origins: []stateOrigin{}}

	res, err := p.Eval(readLocalStorageJS)
	if err != nil {
		return fmt.Errorf("read local storage: %w", err)
	}
	var origin stateOrigin
	if err := res.Value.Unmarshal(&origin); err != nil {
		return fmt.Errorf("decode local storage: %w", err)
	}
	if origin.Origin != "" && origin.Origin != "null" && len(origin.LocalStorage) > 0 {
		st.Origins = append(st.Origins, origin)
	}

	if err := writeState(d.opts.Fs, path, st); err != nil {
		return err
	}
	d.logger.Debug("session saved",
		zap.String("path", path),
		zap.Int("cookies", len(st.Cookies)),
		zap.Int("origins", len(st.Origins)))
	return nil
}

func (d *Document) restoreState(ctx context.Context, path string) error {
	st, err := readState(d.opts.Fs, path)
	if err != nil {
		return err
	}
	p := d.page.Context(ctx)
	if len(st.Cookies) > 0 {
		if err := p.SetCookies(toCookieParams(st.Cookies)); err != nil {
			return fmt.Errorf("set cookies: %w", err)
		}
	}
	for _, o := range st.Origins {
		if _, err := url.Parse(o.Origin); err != nil {
			return fmt.Errorf("bad origin %q: %w", o.Origin, err)
		}
		if err := d.Navigate(ctx, o.Origin); err != nil {
			return fmt.Errorf("open %s: %w", o.Origin, err)
		}
		if _, err := p.Eval(writeLocalStorageJS, o.LocalStorage); err != nil {
			return fmt.Errorf("write local storage of %s: %w", o.Origin, err)
		}
	}
	d.logger.Debug("session restored", zap.String("path", path), zap.Int("cookies", len(st.Cookies)))
	return nil
}

func writeState(fs afero.Fs, path string, st storageState) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, path, data, 0o600)
}

func readState(fs afero.Fs, path string) (storageState, error) {
	var st storageState
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("parse %s: %w", path, err)
	}
	return st, nil
}

func fromNetworkCookies(in []*proto.NetworkCookie) []stateCookie {
	out := make([]stateCookie, 0, len(in))
	for _, c := range in {
		expires := float64(c.Expires)
		if c.Session {
			expires = -1
		}
		out = append(out, stateCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  expires,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: string(c.SameSite),
		})
	}
	return out
}

func toCookieParams(in []stateCookie) []*proto.NetworkCookieParam {
	out := make([]*proto.NetworkCookieParam, 0, len(in))
	for _, c := range in {
		p := &proto.NetworkCookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: proto.NetworkCookieSameSite(c.SameSite),
		}
		if c.Expires > 0 {
			p.Expires = proto.TimeSinceEpoch(c.Expires)
		}
		out = append(out, p)
	}
	return out
}
