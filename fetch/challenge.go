package fetch

import "regexp"

// challengePattern matches common anti-bot interstitial phrasing. A hit
// means the Page Fetcher should fail with BlockedByChallenge rather than
// return interstitial HTML as if it were page content.
var challengePattern = regexp.MustCompile(`(?i)enable javascript and cookies|verify you are human|checking your browser|access denied|request blocked`)

func isChallengeBody(body string) bool {
	return challengePattern.MatchString(body)
}
