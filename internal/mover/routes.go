package mover

// Remote names are fixed by the rclone configuration this tool assumes:
// av: is the plaintext store and av-crypt: the crypt wrapper over it.
const (
	RemotePlain = "av:"
	RemoteCrypt = "av-crypt:"
)

// Root is one named storage location an upload can target.
type Root struct {
	Name  string
	Label string
}

// Route pairs a source root with the matching root on the other remote.
// Only the remote flips; category and shelf stay put.
type Route struct {
	Label       string
	Source      string
	Destination string
	Encrypt     bool
}

// Routes returns the compiled-in transfer routes. Four encrypt-bound, four
// decrypt-bound, one per category and shelf.
func Routes() []Route {
	return []Route{
		{Label: "Encrypt movies/available", Source: "av:movies/available", Destination: "av-crypt:movies/available", Encrypt: true},
		{Label: "Encrypt movies/active", Source: "av:movies/active", Destination: "av-crypt:movies/active", Encrypt: true},
		{Label: "Encrypt shows/available", Source: "av:shows/available", Destination: "av-crypt:shows/available", Encrypt: true},
		{Label: "Encrypt shows/active", Source: "av:shows/active", Destination: "av-crypt:shows/active", Encrypt: true},
		{Label: "Decrypt movies/available", Source: "av-crypt:movies/available", Destination: "av:movies/available", Encrypt: false},
		{Label: "Decrypt movies/active", Source: "av-crypt:movies/active", Destination: "av:movies/active", Encrypt: false},
		{Label: "Decrypt shows/available", Source: "av-crypt:shows/available", Destination: "av:shows/available", Encrypt: false},
		{Label: "Decrypt shows/active", Source: "av-crypt:shows/active", Destination: "av:shows/active", Encrypt: false},
	}
}

// UploadDestinations returns the compiled-in roots a local upload can target.
func UploadDestinations() []Root {
	return []Root{
		{Name: "av:movies/available", Label: "Plaintext movies/available"},
		{Name: "av:movies/active", Label: "Plaintext movies/active"},
		{Name: "av:shows/available", Label: "Plaintext shows/available"},
		{Name: "av:shows/active", Label: "Plaintext shows/active"},
		{Name: "av-crypt:movies/available", Label: "Encrypted movies/available"},
		{Name: "av-crypt:movies/active", Label: "Encrypted movies/active"},
		{Name: "av-crypt:shows/available", Label: "Encrypted shows/available"},
		{Name: "av-crypt:shows/active", Label: "Encrypted shows/active"},
	}
}
