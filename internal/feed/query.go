package feed

// The scoreboard subscription is fixed: the query text never varies at
// runtime, and delivered payloads carry the record list under scoreboardKey.
const (
	scoreboardOperation = "scoreboard"
	scoreboardKey       = "scoreboard"

	scoreboardQuery = `subscription scoreboard {
  scoreboard {
    id
    season
    week
    homeTeam
    awayTeam
    homePoints
    awayPoints
    status
    startDate
  }
}`
)

func scoreboardRequest() Request {
	return Request{OperationName: scoreboardOperation, Query: scoreboardQuery}
}
