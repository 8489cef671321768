package binary

import "github.com/groovy/groovy-eclipse-sub042/internal/types"

const (
	pub       = types.ModPublic
	pubStatic = types.ModPublic | types.ModStatic
	pubFinal  = types.ModPublic | types.ModFinal
	pubAbs    = types.ModPublic | types.ModAbstract
	prot      = types.ModProtected
)

const coreOrigin = "core"

type boxSpec struct {
	name, prim, desc string
	numeric          bool
}

var boxes = []boxSpec{
	{"Boolean", "boolean", "Z", false},
	{"Byte", "byte", "B", true},
	{"Character", "char", "C", false},
	{"Short", "short", "S", true},
	{"Integer", "int", "I", true},
	{"Long", "long", "J", true},
	{"Float", "float", "F", true},
	{"Double", "double", "D", true},
}

// CoreLibrary returns a provider with a compact java.lang / java.util /
// java.io core: enough hierarchy and members to exercise lookup, boxing,
// overloading and generics without a JDK on the class path.
func CoreLibrary() *MemoryProvider {
	p := NewMemoryProvider()
	for _, b := range coreLang() {
		p.Add(b.Origin(coreOrigin).Build())
	}
	for _, b := range coreBoxes() {
		p.Add(b.Origin(coreOrigin).Build())
	}
	for _, b := range coreUtil() {
		p.Add(b.Origin(coreOrigin).Build())
	}
	for _, b := range coreAnnotations() {
		p.Add(b.Origin(coreOrigin).Build())
	}
	return p
}

func coreLang() []*DescriptorBuilder {
	return []*DescriptorBuilder{
		NewClass("java/lang/Object").
			Ctor("()V", "").
			Method(pub, "equals", "(Ljava/lang/Object;)Z", "").
			Method(pub, "hashCode", "()I", "").
			Method(pub, "toString", "()Ljava/lang/String;", "").
			Method(pubFinal, "getClass", "()Ljava/lang/Class;", "()Ljava/lang/Class<*>;").
			Method(prot, "clone", "()Ljava/lang/Object;", "", "java/lang/CloneNotSupportedException").
			Method(pubFinal, "wait", "()V", "", "java/lang/InterruptedException").
			Method(pubFinal, "wait", "(J)V", "", "java/lang/InterruptedException").
			Method(pubFinal, "notify", "()V", ""),

		NewClass("java/lang/Class").Mods(pubFinal).
			Signature("<T:Ljava/lang/Object;>Ljava/lang/Object;Ljava/io/Serializable;").
			Implements("java/io/Serializable").
			Method(pub, "getName", "()Ljava/lang/String;", "").
			Method(pub, "cast", "(Ljava/lang/Object;)Ljava/lang/Object;", "(Ljava/lang/Object;)TT;"),

		NewInterface("java/lang/CharSequence").
			Method(0, "length", "()I", "").
			Method(0, "charAt", "(I)C", ""),

		NewInterface("java/lang/Comparable").
			Signature("<T:Ljava/lang/Object;>Ljava/lang/Object;").
			Method(0, "compareTo", "(Ljava/lang/Object;)I", "(TT;)I"),

		NewInterface("java/lang/Cloneable"),
		NewInterface("java/lang/Runnable").Method(0, "run", "()V", ""),
		NewInterface("java/lang/AutoCloseable").Method(0, "close", "()V", "", "java/lang/Exception"),
		NewInterface("java/io/Closeable").Implements("java/lang/AutoCloseable").
			Method(0, "close", "()V", "", "java/io/IOException"),
		NewInterface("java/io/Serializable"),
		NewInterface("java/io/Flushable").Method(0, "flush", "()V", "", "java/io/IOException"),

		NewClass("java/lang/String").Mods(pubFinal).
			Implements("java/io/Serializable", "java/lang/Comparable", "java/lang/CharSequence").
			Signature("Ljava/lang/Object;Ljava/io/Serializable;Ljava/lang/Comparable<Ljava/lang/String;>;Ljava/lang/CharSequence;").
			Ctor("()V", "").
			Ctor("(Ljava/lang/String;)V", "").
			Ctor("([C)V", "").
			Field(types.ModPublic|types.ModStatic|types.ModFinal, "CASE_INSENSITIVE_ORDER", "Ljava/util/Comparator;", "Ljava/util/Comparator<Ljava/lang/String;>;").
			Method(pub, "length", "()I", "").
			Method(pub, "charAt", "(I)C", "").
			Method(pub, "isEmpty", "()Z", "").
			Method(pub, "concat", "(Ljava/lang/String;)Ljava/lang/String;", "").
			Method(pub, "compareTo", "(Ljava/lang/String;)I", "").
			Method(pub, "equals", "(Ljava/lang/Object;)Z", "").
			Method(pub, "indexOf", "(I)I", "").
			Method(pub, "indexOf", "(Ljava/lang/String;)I", "").
			Method(pub, "substring", "(I)Ljava/lang/String;", "").
			Method(pub, "substring", "(II)Ljava/lang/String;", "").
			Method(pubStatic, "valueOf", "(Ljava/lang/Object;)Ljava/lang/String;", "").
			Method(pubStatic, "valueOf", "(Z)Ljava/lang/String;", "").
			Method(pubStatic, "valueOf", "(C)Ljava/lang/String;", "").
			Method(pubStatic, "valueOf", "(I)Ljava/lang/String;", "").
			Method(pubStatic, "valueOf", "(J)Ljava/lang/String;", "").
			Method(pubStatic, "valueOf", "(D)Ljava/lang/String;", "").
			Method(pubStatic, "valueOf", "([C)Ljava/lang/String;", "").
			Method(pubStatic|types.ModVarargs, "format", "(Ljava/lang/String;[Ljava/lang/Object;)Ljava/lang/String;", "").
			Method(pubStatic|types.ModVarargs, "join", "(Ljava/lang/CharSequence;[Ljava/lang/CharSequence;)Ljava/lang/String;", ""),

		NewClass("java/lang/StringBuilder").Mods(pubFinal).
			Implements("java/io/Serializable", "java/lang/CharSequence").
			Ctor("()V", "").
			Ctor("(Ljava/lang/String;)V", "").
			Method(pub, "append", "(Ljava/lang/Object;)Ljava/lang/StringBuilder;", "").
			Method(pub, "append", "(Ljava/lang/String;)Ljava/lang/StringBuilder;", "").
			Method(pub, "append", "(Ljava/lang/CharSequence;)Ljava/lang/StringBuilder;", "").
			Method(pub, "append", "(Z)Ljava/lang/StringBuilder;", "").
			Method(pub, "append", "(C)Ljava/lang/StringBuilder;", "").
			Method(pub, "append", "(I)Ljava/lang/StringBuilder;", "").
			Method(pub, "append", "(J)Ljava/lang/StringBuilder;", "").
			Method(pub, "append", "(D)Ljava/lang/StringBuilder;", "").
			Method(pub, "length", "()I", "").
			Method(pub, "charAt", "(I)C", "").
			Method(pub, "toString", "()Ljava/lang/String;", ""),

		NewClass("java/lang/Math").Mods(pubFinal).
			Constant("PI", "D", Value{Kind: ValueDouble, Float: 3.141592653589793}).
			Method(pubStatic, "abs", "(I)I", "").
			Method(pubStatic, "abs", "(J)J", "").
			Method(pubStatic, "abs", "(F)F", "").
			Method(pubStatic, "abs", "(D)D", "").
			Method(pubStatic, "max", "(II)I", "").
			Method(pubStatic, "max", "(JJ)J", "").
			Method(pubStatic, "max", "(FF)F", "").
			Method(pubStatic, "max", "(DD)D", ""),

		NewClass("java/lang/System").Mods(pubFinal).
			Field(pubStatic|types.ModFinal, "out", "Ljava/io/PrintStream;", "").
			Method(pubStatic, "currentTimeMillis", "()J", "").
			Method(pubStatic, "arraycopy", "(Ljava/lang/Object;ILjava/lang/Object;II)V", ""),

		NewClass("java/io/PrintStream").
			Implements("java/io/Closeable", "java/io/Flushable").
			Method(pub, "println", "()V", "").
			Method(pub, "println", "(Z)V", "").
			Method(pub, "println", "(C)V", "").
			Method(pub, "println", "(I)V", "").
			Method(pub, "println", "(J)V", "").
			Method(pub, "println", "(D)V", "").
			Method(pub, "println", "(Ljava/lang/String;)V", "").
			Method(pub, "println", "(Ljava/lang/Object;)V", "").
			Method(pub|types.ModVarargs, "printf", "(Ljava/lang/String;[Ljava/lang/Object;)Ljava/io/PrintStream;", "").
			Method(pub, "close", "()V", "").
			Method(pub, "flush", "()V", ""),

		NewClass("java/lang/Throwable").
			Implements("java/io/Serializable").
			Ctor("()V", "").
			Ctor("(Ljava/lang/String;)V", "").
			Ctor("(Ljava/lang/String;Ljava/lang/Throwable;)V", "").
			Method(pub, "getMessage", "()Ljava/lang/String;", "").
			Method(pub, "getCause", "()Ljava/lang/Throwable;", ""),
		throwable("java/lang/Exception", "java/lang/Throwable"),
		throwable("java/lang/RuntimeException", "java/lang/Exception"),
		throwable("java/lang/Error", "java/lang/Throwable"),
		throwable("java/lang/IllegalArgumentException", "java/lang/RuntimeException"),
		throwable("java/lang/IllegalStateException", "java/lang/RuntimeException"),
		throwable("java/lang/NullPointerException", "java/lang/RuntimeException"),
		throwable("java/lang/CloneNotSupportedException", "java/lang/Exception"),
		throwable("java/lang/InterruptedException", "java/lang/Exception"),
		throwable("java/io/IOException", "java/lang/Exception"),
		throwable("java/io/FileNotFoundException", "java/io/IOException"),

		NewClass("java/lang/Enum").Mods(pubAbs).
			Signature("<E:Ljava/lang/Enum<TE;>;>Ljava/lang/Object;Ljava/lang/Comparable<TE;>;Ljava/io/Serializable;").
			Implements("java/lang/Comparable", "java/io/Serializable").
			Method(pubFinal, "name", "()Ljava/lang/String;", "").
			Method(pubFinal, "ordinal", "()I", "").
			Method(pubFinal, "compareTo", "(Ljava/lang/Enum;)I", "(TE;)I"),

		NewClass("java/lang/Record").Mods(pubAbs).
			Method(pubAbs, "equals", "(Ljava/lang/Object;)Z", "").
			Method(pubAbs, "hashCode", "()I", "").
			Method(pubAbs, "toString", "()Ljava/lang/String;", ""),

		NewClass("java/lang/Number").Mods(pubAbs).
			Implements("java/io/Serializable").
			Ctor("()V", "").
			Method(pubAbs, "intValue", "()I", "").
			Method(pubAbs, "longValue", "()J", "").
			Method(pubAbs, "floatValue", "()F", "").
			Method(pubAbs, "doubleValue", "()D", ""),
	}
}

func throwable(name, super string) *DescriptorBuilder {
	return NewClass(name).Super(super).
		Ctor("()V", "").
		Ctor("(Ljava/lang/String;)V", "")
}

func coreBoxes() []*DescriptorBuilder {
	out := make([]*DescriptorBuilder, 0, len(boxes))
	for _, b := range boxes {
		name := "java/lang/" + b.name
		self := "L" + name + ";"
		super := "java/lang/Object"
		if b.numeric {
			super = "java/lang/Number"
		}
		d := NewClass(name).Mods(pubFinal).Super(super).
			Implements("java/lang/Comparable", "java/io/Serializable").
			Signature("L" + super + ";Ljava/lang/Comparable<" + self + ">;Ljava/io/Serializable;").
			Ctor("("+b.desc+")V", "").
			Method(pubStatic, "valueOf", "("+b.desc+")"+self, "").
			Method(pub, b.prim+"Value", "()"+b.desc, "").
			Method(pub, "compareTo", "("+self+")I", "").
			Method(pubStatic, "toString", "("+b.desc+")Ljava/lang/String;", "")
		switch b.name {
		case "Integer":
			d.Constant("MAX_VALUE", "I", Value{Kind: ValueInt, Int: 1<<31 - 1}).
				Constant("MIN_VALUE", "I", Value{Kind: ValueInt, Int: -1 << 31}).
				Method(pubStatic, "parseInt", "(Ljava/lang/String;)I", "").
				Method(pubStatic, "valueOf", "(Ljava/lang/String;)Ljava/lang/Integer;", "")
		case "Long":
			d.Constant("MAX_VALUE", "J", Value{Kind: ValueLong, Int: 1<<63 - 1}).
				Method(pubStatic, "parseLong", "(Ljava/lang/String;)J", "")
		case "Boolean":
			d.Field(pubStatic|types.ModFinal, "TRUE", "Ljava/lang/Boolean;", "").
				Field(pubStatic|types.ModFinal, "FALSE", "Ljava/lang/Boolean;", "")
		}
		out = append(out, d)
	}
	return out
}

func coreUtil() []*DescriptorBuilder {
	return []*DescriptorBuilder{
		NewInterface("java/lang/Iterable").
			Signature("<T:Ljava/lang/Object;>Ljava/lang/Object;").
			Method(0, "iterator", "()Ljava/util/Iterator;", "()Ljava/util/Iterator<TT;>;"),

		NewInterface("java/util/Iterator").
			Signature("<E:Ljava/lang/Object;>Ljava/lang/Object;").
			Method(0, "hasNext", "()Z", "").
			Method(0, "next", "()Ljava/lang/Object;", "()TE;"),

		NewInterface("java/util/Comparator").
			Signature("<T:Ljava/lang/Object;>Ljava/lang/Object;").
			Method(0, "compare", "(Ljava/lang/Object;Ljava/lang/Object;)I", "(TT;TT;)I"),

		NewInterface("java/util/Collection").
			Signature("<E:Ljava/lang/Object;>Ljava/lang/Object;Ljava/lang/Iterable<TE;>;").
			Implements("java/lang/Iterable").
			Method(0, "size", "()I", "").
			Method(0, "isEmpty", "()Z", "").
			Method(0, "contains", "(Ljava/lang/Object;)Z", "").
			Method(0, "add", "(Ljava/lang/Object;)Z", "(TE;)Z").
			Method(0, "remove", "(Ljava/lang/Object;)Z", "").
			Method(0, "addAll", "(Ljava/util/Collection;)Z", "(Ljava/util/Collection<+TE;>;)Z"),

		NewInterface("java/util/List").
			Signature("<E:Ljava/lang/Object;>Ljava/lang/Object;Ljava/util/Collection<TE;>;").
			Implements("java/util/Collection").
			Method(0, "get", "(I)Ljava/lang/Object;", "(I)TE;").
			Method(0, "set", "(ILjava/lang/Object;)Ljava/lang/Object;", "(ITE;)TE;").
			Method(0, "add", "(Ljava/lang/Object;)Z", "(TE;)Z").
			Method(0, "add", "(ILjava/lang/Object;)V", "(ITE;)V").
			Method(0, "remove", "(I)Ljava/lang/Object;", "(I)TE;").
			Method(0, "subList", "(II)Ljava/util/List;", "(II)Ljava/util/List<TE;>;").
			Method(pubStatic, "of", "()Ljava/util/List;", "<E:Ljava/lang/Object;>()Ljava/util/List<TE;>;").
			Method(pubStatic, "of", "(Ljava/lang/Object;)Ljava/util/List;", "<E:Ljava/lang/Object;>(TE;)Ljava/util/List<TE;>;").
			Method(pubStatic|types.ModVarargs, "of", "([Ljava/lang/Object;)Ljava/util/List;", "<E:Ljava/lang/Object;>([TE;)Ljava/util/List<TE;>;"),

		NewInterface("java/util/Set").
			Signature("<E:Ljava/lang/Object;>Ljava/lang/Object;Ljava/util/Collection<TE;>;").
			Implements("java/util/Collection"),

		NewInterface("java/util/RandomAccess"),

		NewClass("java/util/AbstractCollection").Mods(pubAbs).
			Signature("<E:Ljava/lang/Object;>Ljava/lang/Object;Ljava/util/Collection<TE;>;").
			Implements("java/util/Collection").
			Method(pubAbs, "size", "()I", "").
			Method(pub, "isEmpty", "()Z", "").
			Method(pub, "add", "(Ljava/lang/Object;)Z", "(TE;)Z"),

		NewClass("java/util/AbstractList").Mods(pubAbs).
			Super("java/util/AbstractCollection").
			Signature("<E:Ljava/lang/Object;>Ljava/util/AbstractCollection<TE;>;Ljava/util/List<TE;>;").
			Implements("java/util/List").
			Method(pubAbs, "get", "(I)Ljava/lang/Object;", "(I)TE;"),

		NewClass("java/util/ArrayList").
			Super("java/util/AbstractList").
			Signature("<E:Ljava/lang/Object;>Ljava/util/AbstractList<TE;>;Ljava/util/List<TE;>;Ljava/util/RandomAccess;Ljava/lang/Cloneable;Ljava/io/Serializable;").
			Implements("java/util/List", "java/util/RandomAccess", "java/lang/Cloneable", "java/io/Serializable").
			Ctor("()V", "").
			Ctor("(I)V", "").
			Ctor("(Ljava/util/Collection;)V", "(Ljava/util/Collection<+TE;>;)V").
			Method(pub, "get", "(I)Ljava/lang/Object;", "(I)TE;").
			Method(pub, "size", "()I", "").
			Method(pub, "ensureCapacity", "(I)V", ""),

		NewClass("java/util/LinkedList").
			Super("java/util/AbstractList").
			Signature("<E:Ljava/lang/Object;>Ljava/util/AbstractList<TE;>;Ljava/util/List<TE;>;Ljava/lang/Cloneable;Ljava/io/Serializable;").
			Implements("java/util/List", "java/lang/Cloneable", "java/io/Serializable").
			Ctor("()V", "").
			Method(pub, "get", "(I)Ljava/lang/Object;", "(I)TE;").
			Method(pub, "size", "()I", "").
			Method(pub, "addFirst", "(Ljava/lang/Object;)V", "(TE;)V"),

		NewInterface("java/util/Map").
			Signature("<K:Ljava/lang/Object;V:Ljava/lang/Object;>Ljava/lang/Object;").
			MemberTypes("java/util/Map$Entry").
			Method(0, "get", "(Ljava/lang/Object;)Ljava/lang/Object;", "(Ljava/lang/Object;)TV;").
			Method(0, "put", "(Ljava/lang/Object;Ljava/lang/Object;)Ljava/lang/Object;", "(TK;TV;)TV;").
			Method(0, "size", "()I", "").
			Method(0, "entrySet", "()Ljava/util/Set;", "()Ljava/util/Set<Ljava/util/Map$Entry<TK;TV;>;>;"),

		NewInterface("java/util/Map$Entry").Mods(pubStatic).
			Member("java/util/Map").
			Signature("<K:Ljava/lang/Object;V:Ljava/lang/Object;>Ljava/lang/Object;").
			Method(0, "getKey", "()Ljava/lang/Object;", "()TK;").
			Method(0, "getValue", "()Ljava/lang/Object;", "()TV;"),

		NewClass("java/util/HashMap").
			Signature("<K:Ljava/lang/Object;V:Ljava/lang/Object;>Ljava/lang/Object;Ljava/util/Map<TK;TV;>;Ljava/lang/Cloneable;Ljava/io/Serializable;").
			Implements("java/util/Map", "java/lang/Cloneable", "java/io/Serializable").
			Ctor("()V", "").
			Ctor("(Ljava/util/Map;)V", "(Ljava/util/Map<+TK;+TV;>;)V").
			Method(pub, "get", "(Ljava/lang/Object;)Ljava/lang/Object;", "(Ljava/lang/Object;)TV;").
			Method(pub, "put", "(Ljava/lang/Object;Ljava/lang/Object;)Ljava/lang/Object;", "(TK;TV;)TV;"),

		NewClass("java/util/Collections").
			Method(pubStatic, "emptyList", "()Ljava/util/List;", "<T:Ljava/lang/Object;>()Ljava/util/List<TT;>;").
			Method(pubStatic, "singletonList", "(Ljava/lang/Object;)Ljava/util/List;", "<T:Ljava/lang/Object;>(TT;)Ljava/util/List<TT;>;").
			Method(pubStatic, "sort", "(Ljava/util/List;)V", "<T::Ljava/lang/Comparable<-TT;>;>(Ljava/util/List<TT;>;)V").
			Method(pubStatic, "max", "(Ljava/util/Collection;Ljava/util/Comparator;)Ljava/lang/Object;", "<T:Ljava/lang/Object;>(Ljava/util/Collection<+TT;>;Ljava/util/Comparator<-TT;>;)TT;"),

		NewClass("java/util/Arrays").
			Method(pubStatic|types.ModVarargs, "asList", "([Ljava/lang/Object;)Ljava/util/List;", "<T:Ljava/lang/Object;>([TT;)Ljava/util/List<TT;>;").
			Method(pubStatic, "sort", "([I)V", "").
			Method(pubStatic, "sort", "([Ljava/lang/Object;)V", ""),

		NewClass("java/util/Objects").Mods(pubFinal).
			Method(pubStatic, "requireNonNull", "(Ljava/lang/Object;)Ljava/lang/Object;", "<T:Ljava/lang/Object;>(TT;)TT;").
			Method(pubStatic, "equals", "(Ljava/lang/Object;Ljava/lang/Object;)Z", "").
			Method(pubStatic|types.ModVarargs, "hash", "([Ljava/lang/Object;)I", ""),

		NewClass("java/util/Optional").Mods(pubFinal).
			Signature("<T:Ljava/lang/Object;>Ljava/lang/Object;").
			Method(pubStatic, "of", "(Ljava/lang/Object;)Ljava/util/Optional;", "<T:Ljava/lang/Object;>(TT;)Ljava/util/Optional<TT;>;").
			Method(pubStatic, "empty", "()Ljava/util/Optional;", "<T:Ljava/lang/Object;>()Ljava/util/Optional<TT;>;").
			Method(pub, "get", "()Ljava/lang/Object;", "()TT;").
			Method(pub, "orElse", "(Ljava/lang/Object;)Ljava/lang/Object;", "(TT;)TT;"),
	}
}

func enumConst(owner, name string) Value {
	return Value{Kind: ValueEnum, Str: "L" + owner + ";", Name: name}
}

func runtimeRetention() Annotation {
	return Annotation{
		Type:     "java/lang/annotation/Retention",
		Elements: []Element{{Name: "value", Value: enumConst("java/lang/annotation/RetentionPolicy", "RUNTIME")}},
	}
}

func coreAnnotations() []*DescriptorBuilder {
	enum := func(name string, consts ...string) *DescriptorBuilder {
		b := NewClass(name).Enum().
			Signature("Ljava/lang/Enum<L" + name + ";>;").
			Method(pubStatic, "values", "()[L"+name+";", "")
		for _, c := range consts {
			b.Field(pubStatic|types.ModFinal|types.ModEnum, c, "L"+name+";", "")
		}
		return b
	}
	return []*DescriptorBuilder{
		NewInterface("java/lang/annotation/Annotation").
			Method(0, "annotationType", "()Ljava/lang/Class;", "()Ljava/lang/Class<+Ljava/lang/annotation/Annotation;>;"),
		enum("java/lang/annotation/RetentionPolicy", "SOURCE", "CLASS", "RUNTIME"),
		enum("java/lang/annotation/ElementType", "TYPE", "FIELD", "METHOD", "PARAMETER", "CONSTRUCTOR",
			"LOCAL_VARIABLE", "ANNOTATION_TYPE", "PACKAGE", "TYPE_PARAMETER", "TYPE_USE"),
		NewAnnotationType("java/lang/annotation/Retention").
			Annotate(runtimeRetention()).
			Method(0, "value", "()Ljava/lang/annotation/RetentionPolicy;", ""),
		NewAnnotationType("java/lang/annotation/Target").
			Annotate(runtimeRetention()).
			Method(0, "value", "()[Ljava/lang/annotation/ElementType;", ""),
		NewAnnotationType("java/lang/annotation/Repeatable").
			Annotate(runtimeRetention()).
			Method(0, "value", "()Ljava/lang/Class;", "()Ljava/lang/Class<+Ljava/lang/annotation/Annotation;>;"),
		NewAnnotationType("java/lang/annotation/Documented").Annotate(runtimeRetention()),
		NewAnnotationType("java/lang/annotation/Inherited").Annotate(runtimeRetention()),
		NewAnnotationType("java/lang/Override"),
		NewAnnotationType("java/lang/Deprecated").Annotate(runtimeRetention()),
		NewAnnotationType("java/lang/FunctionalInterface").Annotate(runtimeRetention()),
		NewAnnotationType("java/lang/SuppressWarnings").
			Method(0, "value", "()[Ljava/lang/String;", ""),
	}
}
