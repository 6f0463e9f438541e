package media

import (
	"encoding/json"
	"fmt"
)

type movieEnvelope struct {
	Kind Kind `json:"kind"`
	Movie
}

type tvEnvelope struct {
	Kind Kind `json:"kind"`
	TV
}

type gameEnvelope struct {
	Kind Kind `json:"kind"`
	Game
}

// Encode serializes a descriptor with its kind discriminator.
func Encode(d Descriptor) ([]byte, error) {
	switch v := d.(type) {
	case Movie:
		return json.Marshal(movieEnvelope{Kind: KindMovie, Movie: v})
	case TV:
		return json.Marshal(tvEnvelope{Kind: KindTV, TV: v})
	case Game:
		return json.Marshal(gameEnvelope{Kind: KindGame, Game: v})
	case nil:
		return nil, fmt.Errorf("%w: nil descriptor", ErrInvalid)
	default:
		return nil, fmt.Errorf("%w: unsupported descriptor %T", ErrInvalid, d)
	}
}

// Decode parses a descriptor written by Encode and validates it. Ratings
// absent from the payload decode as unknown.
func Decode(data []byte) (Descriptor, error) {
	var head struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	kind, err := ParseKind(head.Kind)
	if err != nil {
		return nil, err
	}

	var d Descriptor
	switch kind {
	case KindMovie:
		env := movieEnvelope{Movie: Movie{IMDbRating: NoRating(), UserRating: NoRating()}}
		err = json.Unmarshal(data, &env)
		d = env.Movie
	case KindTV:
		env := tvEnvelope{TV: TV{IMDbRating: NoRating()}}
		err = json.Unmarshal(data, &env)
		d = env.TV
	case KindGame:
		env := gameEnvelope{Game: Game{Rating: NoRating()}}
		err = json.Unmarshal(data, &env)
		d = env.Game
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrInvalid, kind, err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}
