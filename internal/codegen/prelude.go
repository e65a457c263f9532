package codegen

// RuntimeVersion is the version of the JS runtime shim emitted in the
// prelude. Configuration may pin a constraint against it.
const RuntimeVersion = "0.2.0"

const preludeHeader = "// Generated by tscpp. JS runtime " + RuntimeVersion + "\n"

const prelude = `
#include <Main/Main.h>
#include <Core/File.h>

namespace JS {

struct Console {
    template <typename... Args>
    void log(Args... args) const
    {
        auto buf = StringBuffer();
        MUST(buffer(buf, args...));
        Core::File::stdout().writeln(buf.view()).ignore();
    }

    Console const* operator->() const { return this; }

private:
    template <typename... Args>
        requires (sizeof...(Args) > 1)
    ErrorOr<usize> buffer(StringBuffer& buf, Args const&... args) const
    {
        ErrorOr<usize> results[] = {
            buffer(buf, args)...
        };
        usize size = 0;
        for (auto& result : results)
            size += TRY(result);
        return size;
    }

    template <typename T>
    ErrorOr<usize> buffer(StringBuffer& buffer, T const& value) const
    {
        if constexpr (requires { value.toString(); }) {
            auto buf = TRY(value.toString());
            return TRY(buffer.write(buf.view()));
        } else {
            return TRY(buffer.write(value));
        }
    }
} console;

struct number {
    number(double value)
        : m_value(value)
    {
    }

    number operator+(number other) const
    {
        return number(m_value + other.m_value);
    }

    number operator-(number other) const
    {
        return number(m_value - other.m_value);
    }

    bool operator<=(number other) const
    {
        return m_value <= other.m_value;
    }

    bool operator==(number other) const
    {
        return m_value == other.m_value;
    }

    ErrorOr<StringBuffer> toString() const
    {
        return StringBuffer::create_fill(m_value);
    }

private:
    double m_value { 0.0 };
};

using boolean = bool;

}

using JS::console;
using JS::number;
using JS::boolean;

`
