// Package classify derives a game's content category from its catalog
// signals.
//
// Rules are evaluated in order and the first match wins:
//
//  1. A horror keyword in genres or tags yields Horror, unless the game is
//     also an interactive movie, visual novel or point-and-click title.
//  2. A competitive keyword in tags yields Competitive.
//  3. Developer names, then publisher names when no developer matched, are
//     checked against the AAA and AA studio lists by substring.
//  4. Otherwise popularity decides: more than 5000 ratings or a metacritic
//     of 85 yields AAA, more than 1000 ratings or 75 yields AA, else Indie.
//
// Games without any genre or tag data are Indie. Classification is a pure
// function of the signals and the keyword tables it was built with.
package classify
