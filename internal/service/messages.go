package service

// Messages returned in OperationResult envelopes. Fixed constants so the
// HTTP layer (and tests) can match outcomes without parsing prose.
const (
	MsgUserRegistered    = "User registered successfully."
	MsgLoginSucceeded    = "Login successful."
	MsgUserExists        = "User already exists."
	MsgUserNotFound      = "User not found."
	MsgIncorrectPassword = "Incorrect password."
	MsgInvalidInput      = "Email and password are required."

	MsgCityAdded           = "City added to favorites."
	MsgCityAlreadyFavorite = "City is already a favorite."
	MsgCityRemoved         = "City removed from favorites."
	MsgCityNotFound        = "City not found in favorites."
	MsgNoFavorites         = "You have no favorite cities."
	MsgCityNameRequired    = "City name is required."
)
