package model

import "time"

// User is a catalog member. Password holds a hash, never the plaintext.
type User struct {
	base
	email     string
	password  string
	firstName string
	lastName  string
}

func (u *User) Kind() Kind        { return KindUser }
func (u *User) Key() string       { return Key(KindUser, u.id) }
func (u *User) Email() string     { return u.email }
func (u *User) Password() string  { return u.password }
func (u *User) FirstName() string { return u.firstName }
func (u *User) LastName() string  { return u.lastName }

// SetEmail sets the email after checking it is a bare address.
func (u *User) SetEmail(email string) error {
	if err := checkEmail(KindUser, "email", email); err != nil {
		return err
	}
	u.email = email
	return nil
}

// SetPassword sets the stored password hash.
func (u *User) SetPassword(password string) error {
	if password == "" {
		return invalid(KindUser, "password", "must not be empty")
	}
	u.password = password
	return nil
}

func (u *User) SetFirstName(name string) error {
	u.firstName = name
	return nil
}

func (u *User) SetLastName(name string) error {
	u.lastName = name
	return nil
}

func (u *User) Set(field string, value any) error {
	switch field {
	case "email":
		return setString(KindUser, field, value, u.SetEmail)
	case "password":
		return setString(KindUser, field, value, u.SetPassword)
	case "first_name":
		return setString(KindUser, field, value, u.SetFirstName)
	case "last_name":
		return setString(KindUser, field, value, u.SetLastName)
	}
	return invalid(KindUser, field, "unknown field")
}

func (u *User) Serialize() Record {
	r := u.record(KindUser)
	r["email"] = u.email
	r["password"] = u.password
	r["first_name"] = u.firstName
	r["last_name"] = u.lastName
	return r
}

func (u *User) Clone() Entity {
	c := *u
	return &c
}

var userSpec = KindSpec{
	Kind: KindUser,
	Fields: []FieldSpec{
		{Name: "email"},
		{Name: "password"},
		{Name: "first_name"},
		{Name: "last_name"},
	},
	blank: func(id string, now time.Time) Entity { return &User{base: newBase(id, now)} },
}
