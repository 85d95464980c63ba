package resource

import "time"

// News is an article on the public site.
type News struct {
	Meta
	Visibility
	Title     Text     `json:"title"`
	Category  Text     `json:"category"`
	Author    Text     `json:"author"`
	Content   Text     `json:"content"`
	Image     Text     `json:"image"`
	MediaType Text     `json:"mediaType"` // image, video or audio
	MediaURL  Text     `json:"mediaUrl"`
	Likes     FlexInt  `json:"likes"`
	Date      FlexTime `json:"date"`
}

// Artist is a musician, painter, dancer, ... of the county.
type Artist struct {
	Meta
	Visibility
	FullName     Text     `json:"fullName"`
	StageName    Text     `json:"stageName"`
	Category     Text     `json:"category"`
	Genre        Text     `json:"genre"`
	Bio          Text     `json:"bio"`
	Achievements Text     `json:"achievements"`
	Payam        Text     `json:"payam"`
	Contact      Text     `json:"contact"`
	Facebook     Text     `json:"facebook"`
	Instagram    Text     `json:"instagram"`
	Youtube      Text     `json:"youtube"`
	Tiktok       Text     `json:"tiktok"`
	Photo        Text     `json:"photo"`
	Featured     FlexBool `json:"featured"`
}

// Student is a member of the county students directory.
type Student struct {
	Meta
	Visibility
	FullName        Text      `json:"fullName"`
	FirstName       Text      `json:"firstName"`
	MiddleName      Text      `json:"middleName"`
	LastName        Text      `json:"lastName"`
	Gender          Text      `json:"gender"`
	DOB             *FlexTime `json:"dob,omitempty"`
	Payam           Text      `json:"payam"`
	Photo           Text      `json:"photo"`
	Level           Text      `json:"level"`
	StudyStatus     Text      `json:"studyStatus"`
	Institution     Text      `json:"institution"`
	Country         Text      `json:"country"`
	Field           Text      `json:"field"`
	Specialization  Text      `json:"specialization"`
	Year            Text      `json:"year"`
	EnrollYear      *FlexInt  `json:"enrollYear,omitempty"`
	GradYear        *FlexInt  `json:"gradYear,omitempty"`
	Scholarship     FlexBool  `json:"scholarship"`
	ScholarshipName Text      `json:"scholarshipName"`
	ScholarshipType Text      `json:"scholarshipType"`
	Phone           Text      `json:"phone"`
	Email           Text      `json:"email"`
	Address         Text      `json:"address"`
	Facebook        Text      `json:"facebook"`
	LinkedIn        Text      `json:"linkedIn"`
	Achievements    Text      `json:"achievements"`
	Activities      Text      `json:"activities"`
	CareerGoal      Text      `json:"careerGoal"`
	MemberStatus    Text      `json:"memberStatus"`
	JoinDate        *FlexTime `json:"joinDate,omitempty"`
	Notable         FlexBool  `json:"notable"`
}

// Leader is a community leader.
type Leader struct {
	Meta
	Visibility
	FullName Text `json:"fullName"`
	Title    Text `json:"title"`
	Category Text `json:"category"`
	Payam    Text `json:"payam"`
	Boma     Text `json:"boma"`
	Bio      Text `json:"bio"`
	Phone    Text `json:"phone"`
	Email    Text `json:"email"`
	Photo    Text `json:"photo"`
}

// Service is a public service offered by the county.
type Service struct {
	Meta
	Visibility
	Name        Text `json:"name"`
	Category    Text `json:"category"`
	Location    Text `json:"location"`
	Description Text `json:"description"`
}

// Education is a school or other education facility.
type Education struct {
	Meta
	Visibility
	Name      Text `json:"name"`
	Level     Text `json:"level"`
	Location  Text `json:"location"`
	Principal Text `json:"principal"`
	Image     Text `json:"image"`
}

// History is an entry of the county timeline. It has no status.
type History struct {
	Meta
	Title       Text `json:"title"`
	Year        Text `json:"year"`
	Category    Text `json:"category"`
	Description Text `json:"description"`
	Image       Text `json:"image"`
	MediaType   Text `json:"mediaType"` // image or video
	MediaURL    Text `json:"mediaUrl"`
}

// Healthcare is a hospital, clinic or health programme.
type Healthcare struct {
	Meta
	Visibility
	Name     Text `json:"name"`
	Type     Text `json:"type"`
	Location Text `json:"location"`
	Director Text `json:"director"`
	Services Text `json:"services"`
	Image    Text `json:"image"`
}

// Politician is an elected or appointed official.
type Politician struct {
	Meta
	Visibility
	Name     Text `json:"name"`
	Position Text `json:"position"`
	Party    Text `json:"party"`
	Bio      Text `json:"bio"`
	Photo    Text `json:"photo"`
}

// Military is a member of the armed forces from the county.
type Military struct {
	Meta
	Visibility
	Name   Text `json:"name"`
	Rank   Text `json:"rank"`
	Branch Text `json:"branch"`
	Unit   Text `json:"unit"`
	Bio    Text `json:"bio"`
	Photo  Text `json:"photo"`
}

// Payam is an administrative subdivision of the county.
type Payam struct {
	Meta
	Visibility
	Name       Text `json:"name"`
	Chief      Text `json:"chief"`
	Population Text `json:"population"`
	Image      Text `json:"image"`
}

// Boma is a subdivision of a payam, referenced by name.
type Boma struct {
	Meta
	Visibility
	Name       Text `json:"name"`
	Payam      Text `json:"payam"`
	Chief      Text `json:"chief"`
	Population Text `json:"population"`
	Image      Text `json:"image"`
}

// Sport is a club, team or sporting event.
type Sport struct {
	Meta
	Visibility
	Name     Text `json:"name"`
	Category Text `json:"category"`
	Details  Text `json:"details"`
	Location Text `json:"location"`
	Image    Text `json:"image"`
}

// Slide is an entry of the home page slideshow.
type Slide struct {
	Meta
	Visibility
	Title    Text    `json:"title"`
	Subtitle Text    `json:"subtitle"`
	Image    Text    `json:"image"`
	BtnText  Text    `json:"btnText"`
	BtnLink  Text    `json:"btnLink"`
	Order    FlexInt `json:"order"`
}

// Message is a contact form submission. Status is "new" until the admin reads it.
type Message struct {
	Meta
	Visibility
	Name    Text `json:"name"`
	Email   Text `json:"email"`
	Subject Text `json:"subject"`
	Message Text `json:"message"`
}

// Subscriber is a newsletter subscription.
type Subscriber struct {
	Meta
	Email        Text     `json:"email" validate:"required"`
	SubscribedAt FlexTime `json:"subscribedAt"`
}

// Settings are the site wide contact details, a singleton.
type Settings struct {
	Meta
	SiteTitle    Text `json:"siteTitle"`
	ContactEmail Text `json:"contactEmail"`
	ContactPhone Text `json:"contactPhone"`
	Facebook     Text `json:"facebook"`
	Twitter      Text `json:"twitter"`
	Instagram    Text `json:"instagram"`
	Youtube      Text `json:"youtube"`
}

// Commissioner is the county commissioner's address on the home page, a singleton.
type Commissioner struct {
	Meta
	Name    Text `json:"name"`
	Message Text `json:"message"`
	Photo   Text `json:"photo"`
}

// User is an account of the admin panel or a registered member.
type User struct {
	Meta
	Visibility
	Username  Text `json:"username"`
	FirstName Text `json:"firstName"`
	LastName  Text `json:"lastName"`
	Email     Text `json:"email" validate:"required"`
	Password  Text `json:"password,omitempty" validate:"required"`
	Phone     Text `json:"phone"`
	Gender    Text `json:"gender"`
	Location  Text `json:"location"`
	Role      Text `json:"role"`
}

func active() Visibility {
	return Visibility{Status: StatusActive}
}

func newNews() Entity {
	return &News{
		Visibility: Visibility{Status: StatusPublished},
		MediaType:  "image",
		Date:       NewFlexTime(time.Now()),
	}
}

func newHistory() Entity { return &History{MediaType: "image"} }

func newMessage() Entity { return &Message{Visibility: Visibility{Status: StatusNew}} }

func newSubscriber() Entity { return &Subscriber{SubscribedAt: NewFlexTime(time.Now())} }

func newUser() Entity { return &User{Visibility: active(), Role: RoleAdmin} }
