package identity

import "time"

func resetDefault() {
	initMu.Lock()
	defer initMu.Unlock()
	defaultApp.Store(nil)
}

func (c *AuthClient) setClock(now func() time.Time) {
	c.now = now
}
