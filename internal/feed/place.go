package feed

// PlaceCategory is the facility or sport classification the backend attaches
// to each item. The set is closed; values outside it render as "기타".
type PlaceCategory string

const (
	PlaceAll           PlaceCategory = "ALL"
	PlacePublic        PlaceCategory = "PUBLIC"
	PlacePrivate       PlaceCategory = "PRIVATE"
	PlaceSchool        PlaceCategory = "SCHOOL"
	PlaceDisabled      PlaceCategory = "DISABLED"
	PlaceHealth        PlaceCategory = "HEALTH"
	PlaceBasketball    PlaceCategory = "BASKETBALL"
	PlaceTennis        PlaceCategory = "TENNIS"
	PlaceSoccer        PlaceCategory = "SOCCER"
	PlaceVolleyball    PlaceCategory = "VOLLEYBALL"
	PlaceBaseball      PlaceCategory = "BASEBALL"
	PlaceTableTennis   PlaceCategory = "TABLE_TENNIS"
	PlaceSquash        PlaceCategory = "SQUASH"
	PlaceBadminton     PlaceCategory = "BADMINTON"
	PlaceGolf          PlaceCategory = "GOLF"
	PlaceBowling       PlaceCategory = "BOWLING"
	PlaceBilliards     PlaceCategory = "BILLIARDS"
	PlaceClimbing      PlaceCategory = "CLIMBING"
	PlaceRollerSkating PlaceCategory = "ROLLER_SKATING"
	PlaceIceSkating    PlaceCategory = "ICE_SKATING"
	PlaceComprehensive PlaceCategory = "COMPREHENSIVE"
	PlaceBallet        PlaceCategory = "BALLET"
	PlaceJumpingRope   PlaceCategory = "JUMPING_ROPE"
	PlaceFencing       PlaceCategory = "FENCING"
	PlaceSwimming      PlaceCategory = "SWIMMING"
	PlaceRiding        PlaceCategory = "RIDING"
	PlaceTaekwondo     PlaceCategory = "TAEKWONDO"
	PlaceJudo          PlaceCategory = "JUDO"
	PlaceBoxing        PlaceCategory = "BOXING"
	PlaceJujitsu       PlaceCategory = "JUJITSU"
	PlaceKendo         PlaceCategory = "KENDO"
	PlaceHapkido       PlaceCategory = "HAPKIDO"
	PlaceYoga          PlaceCategory = "YOGA"
	PlacePilates       PlaceCategory = "PILATES"
	PlaceCrossfit      PlaceCategory = "CROSSFIT"
	PlaceAerobics      PlaceCategory = "AEROBICS"
	PlaceDance         PlaceCategory = "DANCE"
)

// unknownPlaceLabel is shown for categories outside the known set.
const unknownPlaceLabel = "기타"

var placeLabels = map[PlaceCategory]string{
	PlaceAll:           "전체",
	PlacePublic:        "공공시설",
	PlacePrivate:       "민간시설",
	PlaceSchool:        "학교",
	PlaceDisabled:      "취약계층",
	PlaceHealth:        "헬스",
	PlaceBasketball:    "농구",
	PlaceTennis:        "테니스",
	PlaceSoccer:        "축구",
	PlaceVolleyball:    "배구",
	PlaceBaseball:      "야구",
	PlaceTableTennis:   "탁구",
	PlaceSquash:        "스쿼시",
	PlaceBadminton:     "배드민턴",
	PlaceGolf:          "골프",
	PlaceBowling:       "볼링",
	PlaceBilliards:     "당구",
	PlaceClimbing:      "클라이밍",
	PlaceRollerSkating: "롤러인라인",
	PlaceIceSkating:    "빙상",
	PlaceComprehensive: "종합체육시설",
	PlaceBallet:        "무용",
	PlaceJumpingRope:   "줄넘기",
	PlaceFencing:       "펜싱",
	PlaceSwimming:      "수영",
	PlaceRiding:        "승마",
	PlaceTaekwondo:     "태권도",
	PlaceJudo:          "유도",
	PlaceBoxing:        "복싱",
	PlaceJujitsu:       "주짓수",
	PlaceKendo:         "검도",
	PlaceHapkido:       "합기도",
	PlaceYoga:          "요가",
	PlacePilates:       "필라테스",
	PlaceCrossfit:      "크로스핏",
	PlaceAerobics:      "에어로빅",
	PlaceDance:         "댄스",
}

// Known reports whether p is part of the closed category set.
func (p PlaceCategory) Known() bool {
	_, ok := placeLabels[p]
	return ok
}

// Label returns the Korean display label, or "기타" for unknown values.
func (p PlaceCategory) Label() string {
	if l, ok := placeLabels[p]; ok {
		return l
	}
	return unknownPlaceLabel
}

// PlaceCategories returns every known category in declaration order.
func PlaceCategories() []PlaceCategory {
	return []PlaceCategory{
		PlaceAll, PlacePublic, PlacePrivate, PlaceSchool, PlaceDisabled,
		PlaceHealth, PlaceBasketball, PlaceTennis, PlaceSoccer, PlaceVolleyball,
		PlaceBaseball, PlaceTableTennis, PlaceSquash, PlaceBadminton, PlaceGolf,
		PlaceBowling, PlaceBilliards, PlaceClimbing, PlaceRollerSkating,
		PlaceIceSkating, PlaceComprehensive, PlaceBallet, PlaceJumpingRope,
		PlaceFencing, PlaceSwimming, PlaceRiding, PlaceTaekwondo, PlaceJudo,
		PlaceBoxing, PlaceJujitsu, PlaceKendo, PlaceHapkido, PlaceYoga,
		PlacePilates, PlaceCrossfit, PlaceAerobics, PlaceDance,
	}
}
