package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/brewtower/pkg/brew"
	"github.com/matzehuels/brewtower/pkg/catalog"
	"github.com/matzehuels/brewtower/pkg/errors"
	"github.com/matzehuels/brewtower/pkg/session"
)

// SessionCookie names the cookie carrying a browser's session id.
const SessionCookie = "brewtower_session"

// uiSession is one browser's live preview state.
type uiSession struct {
	sess  *session.Session
	state *session.State
}

// uiSessions maps browser session ids to their live state. The selection
// and last statistics are written to store so they survive a restart;
// tickets are process-local.
type uiSessions struct {
	mu    sync.Mutex
	live  map[string]*uiSession
	store session.Store
	ttl   time.Duration
}

func newUISessions(store session.Store, ttl time.Duration) *uiSessions {
	if store == nil {
		store = session.NewMemoryStore()
	}
	if ttl <= 0 {
		ttl = session.DefaultTTL
	}
	return &uiSessions{live: make(map[string]*uiSession), store: store, ttl: ttl}
}

// get returns the live session for id, restoring it from the store when
// this process has not seen it yet. Unknown and expired ids yield nil.
func (u *uiSessions) get(ctx context.Context, id string, styles *catalog.Catalog) (*uiSession, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	u.mu.Lock()
	defer u.mu.Unlock()

	if us, ok := u.live[id]; ok {
		if !us.sess.IsExpired() {
			return us, nil
		}
		delete(u.live, id)
	}
	sess, err := u.store.Get(ctx, id)
	if err != nil || sess == nil {
		return nil, err
	}

	var style *brew.Style
	if sess.StyleID != "" {
		if st, err := styles.Lookup(sess.StyleID); err == nil {
			style = &st
		}
	}
	us := &uiSession{sess: sess, state: &session.State{}}
	if err := us.state.Restore(sess, style); err != nil {
		return nil, err
	}
	u.live[id] = us
	return us, nil
}

func (u *uiSessions) create(ctx context.Context) (*uiSession, error) {
	sess := session.New("", u.ttl)
	if err := u.store.Set(ctx, sess); err != nil {
		return nil, err
	}
	us := &uiSession{sess: sess, state: &session.State{}}

	u.mu.Lock()
	defer u.mu.Unlock()
	for id, other := range u.live {
		if other.sess.IsExpired() {
			delete(u.live, id)
		}
	}
	u.live[sess.ID] = us
	return us, nil
}

// save persists the session's current selection and statistics.
func (u *uiSessions) save(ctx context.Context, us *uiSession) error {
	u.mu.Lock()
	us.state.Persist(us.sess)
	sess := *us.sess
	u.mu.Unlock()
	return u.store.Set(ctx, &sess)
}

// uiSession resolves the browser session of r. With create set, a request
// without a valid session gets a new one and the cookie is set on w;
// otherwise it yields nil.
func (s *Server) uiSession(w http.ResponseWriter, r *http.Request, create bool) (*uiSession, error) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		us, err := s.sessions.get(r.Context(), c.Value, s.catalog)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "load session")
		}
		if us != nil {
			return us, nil
		}
	}
	if !create {
		return nil, nil
	}
	us, err := s.sessions.create(r.Context())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create session")
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    us.sess.ID,
		Path:     "/",
		Expires:  us.sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return us, nil
}
