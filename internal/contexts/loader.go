// Package contexts resolves JSON-LD documents referenced by URL during
// expansion and framing.
//
// Resolution order for a URL:
//  1. Local overrides (exact URL, then longest "/"-terminated prefix)
//  2. The context cache, when one is configured and the entry is fresh
//  3. The remote loader (HTTP), unless the loader is offline
//
// Successful remote fetches are written back to the cache.
package contexts

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/piprate/json-gold/ld"
	"github.com/rs/zerolog"

	"github.com/roach88/ldframe/internal/store"
)

// Source identifies where a document was resolved from.
type Source string

const (
	SourceLocal  Source = "local"
	SourceCache  Source = "cache"
	SourceRemote Source = "remote"
)

// DefaultHTTPTimeout bounds a single remote context fetch.
const DefaultHTTPTimeout = 30 * time.Second

// Cache is the subset of store.Store the loader needs.
type Cache interface {
	Get(ctx context.Context, url string) (store.Entry, bool, error)
	Put(ctx context.Context, e store.Entry) error
}

// Options configures a Loader.
type Options struct {
	// Overrides maps a URL, or a URL prefix ending in "/", to a local file or
	// directory. Relative paths are resolved against BaseDir.
	Overrides map[string]string
	BaseDir   string

	Cache Cache
	// TTL is how long a cached entry is served before refetching. Zero means
	// entries never expire.
	TTL time.Duration

	// Offline disables remote fetches for http and https URLs.
	Offline bool

	// Remote performs network fetches. Defaults to json-gold's HTTP loader
	// using a client with HTTPTimeout.
	Remote      ld.DocumentLoader
	HTTPTimeout time.Duration

	Context context.Context
	Logger  zerolog.Logger
	Now     func() time.Time
}

// Loader implements ld.DocumentLoader.
type Loader struct {
	exact    map[string]string
	prefixes []prefixOverride
	cache    Cache
	ttl      time.Duration
	offline  bool
	remote   ld.DocumentLoader
	ctx      context.Context
	log      zerolog.Logger
	now      func() time.Time

	resolved map[Source]int
}

type prefixOverride struct {
	prefix string
	dir    string
}

var _ ld.DocumentLoader = (*Loader)(nil)

// New builds a Loader from opts.
func New(opts Options) *Loader {
	l := &Loader{
		exact:    make(map[string]string),
		cache:    opts.Cache,
		ttl:      opts.TTL,
		offline:  opts.Offline,
		remote:   opts.Remote,
		ctx:      opts.Context,
		log:      opts.Logger,
		now:      opts.Now,
		resolved: make(map[Source]int),
	}

	for u, p := range opts.Overrides {
		if !filepath.IsAbs(p) && opts.BaseDir != "" {
			p = filepath.Join(opts.BaseDir, p)
		}
		if strings.HasSuffix(u, "/") {
			l.prefixes = append(l.prefixes, prefixOverride{prefix: u, dir: p})
			continue
		}
		l.exact[u] = p
	}
	// Longest prefix wins.
	sort.Slice(l.prefixes, func(i, j int) bool {
		return len(l.prefixes[i].prefix) > len(l.prefixes[j].prefix)
	})

	if l.remote == nil {
		timeout := opts.HTTPTimeout
		if timeout <= 0 {
			timeout = DefaultHTTPTimeout
		}
		l.remote = ld.NewDefaultDocumentLoader(&http.Client{Timeout: timeout})
	}
	if l.ctx == nil {
		l.ctx = context.Background()
	}
	if l.now == nil {
		l.now = time.Now
	}
	return l
}

// Resolved returns how many documents were served from each source.
func (l *Loader) Resolved() map[Source]int {
	out := make(map[Source]int, len(l.resolved))
	for k, v := range l.resolved {
		out[k] = v
	}
	return out
}

// LoadDocument resolves u through overrides, the cache and the network.
func (l *Loader) LoadDocument(u string) (*ld.RemoteDocument, error) {
	key := stripFragment(u)

	path, ok, err := l.localPath(key)
	if err != nil {
		return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, err.Error())
	}
	if ok {
		doc, err := readLocal(path)
		if err != nil {
			return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, fmt.Sprintf("override for %s: %v", u, err))
		}
		l.record(SourceLocal, u, path)
		return &ld.RemoteDocument{DocumentURL: u, Document: doc}, nil
	}

	if !isRemote(key) {
		doc, err := l.remote.LoadDocument(u)
		if err != nil {
			return nil, err
		}
		l.record(SourceLocal, u, u)
		return doc, nil
	}

	if l.cache != nil {
		entry, found, err := l.cache.Get(l.ctx, key)
		if err != nil {
			l.log.Warn().Err(err).Str("url", key).Msg("context cache read failed")
		} else if found && l.fresh(entry) {
			l.record(SourceCache, u, "")
			return &ld.RemoteDocument{
				DocumentURL: entry.URL,
				Document:    entry.Document,
				ContextURL:  entry.ContextURL,
			}, nil
		}
	}

	if l.offline {
		return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed,
			fmt.Sprintf("%s is not available offline: no local override or cached copy", u))
	}

	doc, err := l.remote.LoadDocument(u)
	if err != nil {
		return nil, err
	}
	l.record(SourceRemote, u, "")

	if l.cache != nil {
		putErr := l.cache.Put(l.ctx, store.Entry{
			URL:        key,
			Document:   doc.Document,
			ContextURL: doc.ContextURL,
			FetchedAt:  l.now(),
		})
		if putErr != nil {
			l.log.Warn().Err(putErr).Str("url", key).Msg("context cache write failed")
		}
	}
	return doc, nil
}

func (l *Loader) fresh(e store.Entry) bool {
	if l.ttl <= 0 {
		return true
	}
	return l.now().Sub(e.FetchedAt) < l.ttl
}

func (l *Loader) record(src Source, u, path string) {
	l.resolved[src]++
	ev := l.log.Debug().Str("url", u).Str("source", string(src))
	if path != "" {
		ev = ev.Str("path", path)
	}
	ev.Msg("document resolved")
}

// localPath returns the override file for u, if one applies.
func (l *Loader) localPath(u string) (string, bool, error) {
	if p, ok := l.exact[u]; ok {
		return p, true, nil
	}
	for _, po := range l.prefixes {
		if !strings.HasPrefix(u, po.prefix) {
			continue
		}
		rest := filepath.FromSlash(strings.TrimPrefix(u, po.prefix))
		if rest == "" || !filepath.IsLocal(rest) {
			return "", false, fmt.Errorf("%s escapes override directory for %s", u, po.prefix)
		}
		return filepath.Join(po.dir, rest), true, nil
	}
	return "", false, nil
}

func readLocal(path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ld.DocumentFromReader(f)
}

func isRemote(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	return parsed.Scheme == "http" || parsed.Scheme == "https"
}

func stripFragment(u string) string {
	if i := strings.IndexByte(u, '#'); i >= 0 {
		return u[:i]
	}
	return u
}
