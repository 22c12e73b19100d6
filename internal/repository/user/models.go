package user

type User struct {
	Id           string
	Username     string
	PasswordHash string
}

type SetUserParams struct {
	Id           string
	Username     string
	PasswordHash string
}
