package bancho

// Users indexes live sessions by id, name and token. It is a plain
// collection; the owning Server mutex guards every method.
type Users struct {
	byID    map[int32]*User
	byName  map[string]*User
	byToken map[string]*User
}

// NewUsers returns an empty session index.
func NewUsers() *Users {
	return &Users{
		byID:    make(map[int32]*User),
		byName:  make(map[string]*User),
		byToken: make(map[string]*User),
	}
}

// Add inserts a session. A session with the same id is replaced.
func (us *Users) Add(u *User) {
	us.byID[u.ID] = u
	us.byName[u.Name] = u
	if u.Token != "" {
		us.byToken[u.Token] = u
	}
}

// Remove drops a session from every index.
func (us *Users) Remove(u *User) {
	delete(us.byID, u.ID)
	delete(us.byName, u.Name)
	delete(us.byToken, u.Token)
}

// ByID returns the session with the given id, nil if offline.
func (us *Users) ByID(id int32) *User {
	return us.byID[id]
}

// ByName returns the session with the given display name, nil if offline.
func (us *Users) ByName(name string) *User {
	return us.byName[name]
}

// ByToken returns the session holding the given token, nil if unknown.
func (us *Users) ByToken(token string) *User {
	return us.byToken[token]
}

// Count returns the number of live sessions, bot included.
func (us *Users) Count() int {
	return len(us.byID)
}

// ForEach visits every session.
func (us *Users) ForEach(fn func(*User)) {
	for _, u := range us.byID {
		fn(u)
	}
}

// Broadcast enqueues data to every session except the listed ids.
func (us *Users) Broadcast(data []byte, immune ...int32) {
	for _, u := range us.byID {
		skip := false
		for _, id := range immune {
			if u.ID == id {
				skip = true
				break
			}
		}
		if !skip {
			u.Enqueue(data)
		}
	}
}

// BroadcastUnrestricted enqueues data to every unrestricted session except
// the listed ids. Packets from restricted users go nowhere visible.
func (us *Users) BroadcastUnrestricted(data []byte, immune ...int32) {
	for _, u := range us.byID {
		if u.Restricted() {
			continue
		}
		skip := false
		for _, id := range immune {
			if u.ID == id {
				skip = true
				break
			}
		}
		if !skip {
			u.Enqueue(data)
		}
	}
}
